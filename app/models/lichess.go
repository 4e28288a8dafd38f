package models

// ExplorerResponse represents a subset of the Lichess opening explorer payload.
type ExplorerResponse struct {
	White int            `json:"white"`
	Draws int            `json:"draws"`
	Black int            `json:"black"`
	Moves []ExplorerMove `json:"moves"`
}

// ExplorerMove is one move the masters database knows for a position.
type ExplorerMove struct {
	UCI   string `json:"uci"`
	SAN   string `json:"san"`
	White int    `json:"white"`
	Draws int    `json:"draws"`
	Black int    `json:"black"`
}

// TotalGames sums recorded outcomes regardless of result.
func (m ExplorerMove) TotalGames() int {
	return m.White + m.Draws + m.Black
}
