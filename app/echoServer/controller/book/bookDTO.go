package book

type BookReq struct {
	Title  string  `json:"title" validate:"required"`
	Author string  `json:"author" validate:"required"`
	Genre  string  `json:"genre" validate:"required"`
	Price  float64 `json:"price" validate:"gte=0"`
	Stock  int64   `json:"stock" validate:"gte=0"`
}
