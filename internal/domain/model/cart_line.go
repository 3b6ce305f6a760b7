package model

// CartLine はカート明細の表示用フォーマット。
// ゲストカートと永続カートで同じ形を返す。price は追加/最終更新時点のスナップショット。
type CartLine struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}
