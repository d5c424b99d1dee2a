package models

type PageData struct {
	Title      string
	CSRFtoken  string
	IsLoggedIn bool
	UserEmail  string
	Message    string
	Orders     []Order
	Status     string
}

// BagsFragment is rendered into the bag list placeholder
type BagsFragment struct {
	Bags      []Bag
	Failed    bool
	CSRFtoken string
}

// TagsFragment is rendered into the tag list
type TagsFragment struct {
	Tags  []string
	Error string
}
