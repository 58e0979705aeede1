package domain

// Costume костюм из каталога (каталог ведётся вне движка бронирования)
type Costume struct {
	ID    int64
	Title string
	Sizes []string // упорядоченный список размеров
}

// HasSize проверяет, что размер входит в размерный ряд костюма
func (c *Costume) HasSize(size string) bool {
	for _, s := range c.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// StockEntry количество единиц костюма определённого размера
type StockEntry struct {
	CostumeID int64
	Size      string
	Count     int
}

// CostumeStock остатки костюма по всем размерам для экрана учёта
type CostumeStock struct {
	Costume     Costume
	StockBySize map[string]int
}

// Total суммарный сток по всем размерам
func (s *CostumeStock) Total() int {
	total := 0
	for _, size := range s.Costume.Sizes {
		total += s.StockBySize[size]
	}
	return total
}
