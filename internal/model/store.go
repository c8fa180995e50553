package model

// Store represents a shop location with its own product catalog.
type Store struct {
	ID   string `json:"id" validate:"required,storeid"`
	Name string `json:"name" validate:"required"`
}

// Config is the installation-wide document listing all stores.
type Config struct {
	Stores []Store `json:"stores"`
}

// Find returns the store with the given ID.
func (c Config) Find(id string) (Store, bool) {
	for _, s := range c.Stores {
		if s.ID == id {
			return s, true
		}
	}
	return Store{}, false
}
