package web

type GameSummary struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Players   int    `json:"players"`
	StartedAt string `json:"started_at"`
}
