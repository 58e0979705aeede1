package models

import "github.com/m04kA/SMC-CostumeRentalService/internal/domain"

// AdjustStockRequest запрос на корректировку остатка
type AdjustStockRequest struct {
	ActorTgID int64  `json:"-"`
	CostumeID int64  `json:"costumeId"`
	Size      string `json:"size"`
	Amount    int    `json:"amount"` // может быть отрицательным
}

// AdjustStockResponse остаток после корректировки
type AdjustStockResponse struct {
	CostumeID int64  `json:"costumeId"`
	Size      string `json:"size"`
	Count     int    `json:"count"`
}

// SizeStock остаток одного размера
type SizeStock struct {
	Size  string `json:"size"`
	Count int    `json:"count"`
}

// CostumeStockResponse остатки костюма для экрана учёта
type CostumeStockResponse struct {
	CostumeID int64       `json:"costumeId"`
	Title     string      `json:"title"`
	Sizes     []SizeStock `json:"sizes"`
	Total     int         `json:"total"`
}

// FromDomainCostumeStock конвертирует остатки костюма в ответ
func FromDomainCostumeStock(stock domain.CostumeStock) CostumeStockResponse {
	sizes := make([]SizeStock, 0, len(stock.Costume.Sizes))
	for _, size := range stock.Costume.Sizes {
		sizes = append(sizes, SizeStock{Size: size, Count: stock.StockBySize[size]})
	}

	return CostumeStockResponse{
		CostumeID: stock.Costume.ID,
		Title:     stock.Costume.Title,
		Sizes:     sizes,
		Total:     stock.Total(),
	}
}
