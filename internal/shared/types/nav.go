package types

// NavTab represents one whole application in top-level navigation
type NavTab struct {
	ID       string `json:"id"`
	App      string `json:"app"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	IsActive bool   `json:"is_active"`
}

// PageTab represents one open page within the main application
type PageTab struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	Closable bool   `json:"closable"`
}
