package shop

type CreateShopRequest struct {
	Name string `json:"name" binding:"required,max=120"`
}

type UpdateShopRequest struct {
	Name string `json:"name" binding:"required,max=120"`
}

type ShopResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}
