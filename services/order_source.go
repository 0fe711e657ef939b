package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/threadline/threadline-api/models"
)

// OrderConfig is the normalized configuration block of an order view. Fields
// that one source does not carry are left at their zero value.
type OrderConfig struct {
	ClothingType string `json:"clothing_type,omitempty"`
	Size         string `json:"size,omitempty"`
	Color        string `json:"color,omitempty"`
	Quantity     int    `json:"quantity,omitempty"`
	Notes        string `json:"notes,omitempty"`
	BaseItem     string `json:"base_item,omitempty"`
	Placement    string `json:"placement,omitempty"`
}

// OrderView is the single normalized order shape presented to callers
// regardless of which physical collection the order lives in.
//
// For ClothCustomizer orders, Status is synthesized as "assigned" and
// AssignedTailor is always nil; the OrderAssignment record is the only
// authoritative binding for that source.
type OrderView struct {
	Source         string         `json:"source"`
	ID             uint           `json:"id"`
	Customer       *models.User   `json:"customer"`
	Config         OrderConfig    `json:"config"`
	Design         string         `json:"design"`
	Price          *float64       `json:"price"`
	Status         string         `json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
	AssignedTailor *models.Tailor `json:"assigned_tailor"`
	PreviewURLs    []string       `json:"preview_urls,omitempty"`
}

// ResolveOrder loads the order identified by (source, id) and maps it into
// the common view. Returns (nil, nil) when the underlying document does not
// exist. Performs no writes.
func ResolveOrder(db *gorm.DB, source string, id uint) (*OrderView, error) {
	if !models.ValidOrderSource(source) {
		return nil, &ValidationError{Message: "invalid order source: " + source}
	}

	switch source {
	case models.OrderSourceCustomOrder:
		var order models.CustomOrder
		err := db.Preload("Customer").Preload("AssignedTailor").First(&order, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		view := &OrderView{
			Source:   models.OrderSourceCustomOrder,
			ID:       order.ID,
			Customer: &order.Customer,
			Config: OrderConfig{
				ClothingType: order.ClothingType,
				Size:         order.Size,
				Color:        order.Color,
				Quantity:     order.Quantity,
				Notes:        order.Notes,
			},
			Design:         order.DesignSnapshot,
			Price:          order.Price,
			Status:         order.Status,
			CreatedAt:      order.CreatedAt,
			AssignedTailor: order.AssignedTailor,
		}
		if preview := GetPreviewService(); preview != nil {
			view.PreviewURLs = preview.GalleryURLs(order.PreviewKeys)
		}
		return view, nil

	default: // models.OrderSourceClothCustomizer
		var customizer models.ClothCustomizer
		err := db.Preload("User").First(&customizer, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		return &OrderView{
			Source:   models.OrderSourceClothCustomizer,
			ID:       customizer.ID,
			Customer: &customizer.User,
			Config: OrderConfig{
				BaseItem:  customizer.BaseItem,
				Placement: customizer.Placement,
			},
			Design:    customizer.DesignData,
			Price:     customizer.Price,
			Status:    models.OrderStatusAssigned,
			CreatedAt: customizer.CreatedAt,
			// The legacy assignedTailor pointer on the customizer document
			// predates the assignment records and is deliberately not
			// reported here.
			AssignedTailor: nil,
		}, nil
	}
}
