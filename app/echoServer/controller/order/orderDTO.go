package order

type OrderItemReq struct {
	BookID   int64 `json:"book_id" validate:"required,gt=0"`
	Quantity int   `json:"quantity" validate:"required,gt=0"`
}

type PlaceOrderReq struct {
	Items []OrderItemReq `json:"items" validate:"required,min=1,dive"`
}
