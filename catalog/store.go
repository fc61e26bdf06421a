// Package catalog is the source of truth for the laptops on sale.
package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"laptopshop/events"
	"laptopshop/models"
)

const (
	DefaultRating  = 4.5
	DefaultReviews = 0
	DefaultBadge   = "New"
)

var (
	ErrNotFound = errors.New("laptop not found")
	// ErrInUse is returned when other rows still reference the laptop.
	ErrInUse = errors.New("laptop is referenced by other records")
)

type Store interface {
	List(ctx context.Context) ([]models.Laptop, error)
	Get(ctx context.Context, id int) (models.Laptop, error)
	Create(ctx context.Context, in models.LaptopInput) (models.Laptop, error)
	Update(ctx context.Context, id int, patch models.LaptopPatch) (models.Laptop, error)
	// Delete reports false with a nil error when id was already absent.
	Delete(ctx context.Context, id int) (bool, error)
}

// NewLaptop applies the catalog defaults to a create request. Legacy
// single-image payloads are folded into Images here, once.
func NewLaptop(in models.LaptopInput, now time.Time) models.Laptop {
	in = Normalize(in)
	l := models.Laptop{
		Name:          strings.TrimSpace(in.Name),
		Brand:         strings.TrimSpace(in.Brand),
		Price:         strings.TrimSpace(in.Price),
		OriginalPrice: in.OriginalPrice,
		Images:        in.Images,
		Rating:        DefaultRating,
		Reviews:       DefaultReviews,
		Badge:         DefaultBadge,
		Specs:         in.Specs,
		InStock:       true,
		Description:   in.Description,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.Rating != nil {
		l.Rating = *in.Rating
	}
	if in.Reviews != nil {
		l.Reviews = *in.Reviews
	}
	if in.Badge != nil && *in.Badge != "" {
		l.Badge = *in.Badge
	}
	if in.InStock != nil {
		l.InStock = *in.InStock
	}
	if l.Images == nil {
		l.Images = []string{}
	}
	if l.Specs == nil {
		l.Specs = []string{}
	}
	return l
}

// Normalize adapts older record shapes: a lone Image becomes the first
// entry of Images, and blank image references are dropped.
func Normalize(in models.LaptopInput) models.LaptopInput {
	var images []string
	if img := strings.TrimSpace(in.Image); img != "" {
		images = append(images, img)
	}
	for _, img := range in.Images {
		if img = strings.TrimSpace(img); img != "" && !contains(images, img) {
			images = append(images, img)
		}
	}
	in.Image = ""
	in.Images = images
	return in
}

// ValidateInput checks the fields a laptop cannot be created without.
func ValidateInput(in models.LaptopInput) error {
	return models.Missing("Missing required fields", [][2]string{
		{"name", in.Name},
		{"brand", in.Brand},
		{"price", in.Price},
	})
}

// ValidatePatch rejects blanking a required field.
func ValidatePatch(p models.LaptopPatch) error {
	var fields [][2]string
	if p.Name != nil {
		fields = append(fields, [2]string{"name", *p.Name})
	}
	if p.Brand != nil {
		fields = append(fields, [2]string{"brand", *p.Brand})
	}
	if p.Price != nil {
		fields = append(fields, [2]string{"price", *p.Price})
	}
	return models.Missing("Missing required fields", fields)
}

type EventKind string

const (
	Created EventKind = "created"
	Updated EventKind = "updated"
	Deleted EventKind = "deleted"
)

type Event struct {
	Kind   EventKind
	Laptop models.Laptop
}

// Notifying publishes an Event after every successful write to the wrapped
// store.
type Notifying struct {
	Store
	bus *events.Bus[Event]
}

func WithEvents(s Store, bus *events.Bus[Event]) *Notifying {
	return &Notifying{Store: s, bus: bus}
}

func (n *Notifying) Create(ctx context.Context, in models.LaptopInput) (models.Laptop, error) {
	l, err := n.Store.Create(ctx, in)
	if err == nil {
		n.bus.Publish(Event{Kind: Created, Laptop: l})
	}
	return l, err
}

func (n *Notifying) Update(ctx context.Context, id int, p models.LaptopPatch) (models.Laptop, error) {
	l, err := n.Store.Update(ctx, id, p)
	if err == nil {
		n.bus.Publish(Event{Kind: Updated, Laptop: l})
	}
	return l, err
}

func (n *Notifying) Delete(ctx context.Context, id int) (bool, error) {
	ok, err := n.Store.Delete(ctx, id)
	if err == nil && ok {
		n.bus.Publish(Event{Kind: Deleted, Laptop: models.Laptop{ID: id}})
	}
	return ok, err
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
