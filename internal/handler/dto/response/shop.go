package response

import "flashsale-service/internal/usecase/queries"

type ShopResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	AvgPrice int32  `json:"avg_price"`
	Score    int32  `json:"score"`
	Stale    bool   `json:"stale"`
}

func NewShopResponse(view *queries.ShopView, stale bool) ShopResponse {
	return ShopResponse{
		ID:       view.ID,
		Name:     view.Name,
		Address:  view.Address,
		AvgPrice: view.AvgPrice,
		Score:    view.Score,
		Stale:    stale,
	}
}
