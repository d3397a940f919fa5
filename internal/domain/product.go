package domain

import "time"

type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryClothing    Category = "clothing"
	CategoryBooks       Category = "books"
	CategoryHome        Category = "home"
	CategorySports      Category = "sports"
	CategoryToys        Category = "toys"
	CategoryFood        Category = "food"
	CategoryOther       Category = "other"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryElectronics, CategoryClothing, CategoryBooks, CategoryHome,
		CategorySports, CategoryToys, CategoryFood, CategoryOther:
		return true
	}
	return false
}

// Review is a single customer review embedded in the product document.
type Review struct {
	UserID    string    `bson:"user_id" json:"user_id"`
	Name      string    `bson:"name" json:"name"`
	Rating    int       `bson:"rating" json:"rating"`
	Comment   string    `bson:"comment" json:"comment"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

type Product struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	Price       float64   `bson:"price" json:"price"`
	Category    Category  `bson:"category" json:"category"`
	Image       string    `bson:"image" json:"image"`
	Stock       int       `bson:"stock" json:"stock"`
	Rating      float64   `bson:"rating" json:"rating"`
	NumReviews  int       `bson:"num_reviews" json:"num_reviews"`
	Reviews     []Review  `bson:"reviews" json:"reviews,omitempty"`
	CreatedBy   string    `bson:"created_by" json:"created_by"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// RecalculateRating refreshes the aggregate fields from the embedded reviews.
func (p *Product) RecalculateRating() {
	p.NumReviews = len(p.Reviews)
	if p.NumReviews == 0 {
		p.Rating = 0
		return
	}
	sum := 0
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	p.Rating = float64(sum) / float64(p.NumReviews)
}

// ReviewedBy reports whether the user already left a review.
func (p *Product) ReviewedBy(userID string) bool {
	for _, r := range p.Reviews {
		if r.UserID == userID {
			return true
		}
	}
	return false
}
