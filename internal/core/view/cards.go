package view

import (
	"fmt"
	"strconv"

	"github.com/rashad-agri/marketplace/internal/core/domain"
)

const (
	NoProductsMessage = "لا توجد منتجات متاحة"
	NoOrdersMessage   = "لا توجد طلبات"
	NoExpertsMessage  = "لا يوجد خبراء متاحون حالياً"
	NoPlansMessage    = "لا توجد خطط زراعية"
	NoMessagesMessage = "لا توجد رسائل"
)

// ProductCard is one tile of the product grid.
type ProductCard struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       string `json:"price"`
	Unit        string `json:"unit"`
	Quantity    string `json:"quantity"`
	State       string `json:"state"`
	ImageURL    string `json:"image_url,omitempty"`
	SellerID    string `json:"seller_id"`
	SellerName  string `json:"seller_name"`
	SellerPhone string `json:"seller_phone,omitempty"`
	Available   bool   `json:"available"`
}

// NewProductCard formats p for the grid.
func NewProductCard(p domain.Product) ProductCard {
	c := ProductCard{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       FormatPrice(p.Price),
		Unit:        p.Unit,
		Quantity:    FormatNumber(p.Quantity),
		State:       p.State,
		ImageURL:    p.ImageURL,
		SellerID:    p.SellerID,
		SellerName:  domain.GenericUserLabel,
		Available:   p.IsAvailable,
	}
	if p.Seller != nil {
		c.SellerName = FullName(p.Seller.FirstName, p.Seller.LastName)
		c.SellerPhone = p.Seller.Phone
		if c.State == "" {
			c.State = p.Seller.State
		}
	}
	return c
}

// OrderRow is one line of an orders table.
type OrderRow struct {
	ID          string `json:"id"`
	ProductName string `json:"product_name"`
	Quantity    string `json:"quantity"`
	Total       string `json:"total"`
	Status      string `json:"status"`
	StatusLabel string `json:"status_label"`
	StatusClass string `json:"status_class"`
	Date        string `json:"date"`
}

// NewOrderRow formats o for a table.
func NewOrderRow(o domain.Order) OrderRow {
	name := "-"
	if o.Product != nil && o.Product.Name != "" {
		name = o.Product.Name
	}
	return OrderRow{
		ID:          o.ID,
		ProductName: name,
		Quantity:    FormatNumber(o.Quantity),
		Total:       FormatPrice(o.TotalPrice),
		Status:      string(o.Status),
		StatusLabel: o.Status.Label(),
		StatusClass: "status-" + string(o.Status),
		Date:        FormatDate(o.CreatedAt),
	}
}

// ExpertCard is one tile of the experts grid.
type ExpertCard struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Initial        string `json:"initial"`
	Specialization string `json:"specialization"`
	Experience     string `json:"experience"`
	Rating         string `json:"rating"`
	HourlyRate     string `json:"hourly_rate"`
	Bio            string `json:"bio"`
	State          string `json:"state"`
}

// NewExpertCard formats e for the grid. Experts without a side profile keep
// the generic specialization.
func NewExpertCard(e domain.Expert) ExpertCard {
	c := ExpertCard{
		ID:             e.ID,
		Name:           FullName(e.FirstName, e.LastName),
		Initial:        initial(e.FirstName),
		Specialization: "استشارات زراعية",
		Experience:     "-",
		Rating:         "-",
		HourlyRate:     "-",
		State:          e.State,
	}
	if d := e.Details; d != nil {
		if d.Specialization != "" {
			c.Specialization = d.Specialization
		}
		c.Experience = fmt.Sprintf("%d سنوات خبرة", d.YearsExperience)
		c.Rating = strconv.FormatFloat(d.Rating, 'f', 1, 64)
		c.HourlyRate = FormatPrice(d.HourlyRate)
		c.Bio = d.Bio
	}
	return c
}

// PlanItem is one entry of the farming plans list.
type PlanItem struct {
	ID       string `json:"id"`
	Crop     string `json:"crop"`
	Area     string `json:"area"`
	Planting string `json:"planting_date"`
	Harvest  string `json:"harvest_date"`
	Status   string `json:"status"`
}

// NewPlanItem formats p for the list.
func NewPlanItem(p domain.FarmingPlan) PlanItem {
	return PlanItem{
		ID:       p.ID,
		Crop:     p.CropType,
		Area:     FormatNumber(p.AreaFeddan) + " فدان",
		Planting: FormatDate(p.PlantingDate),
		Harvest:  FormatDate(p.HarvestDate),
		Status:   p.Status,
	}
}

// MessageItem is one bubble of the chat modal.
type MessageItem struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Mine    bool   `json:"mine"`
	Time    string `json:"time"`
}

// MessageItems formats a conversation as seen by viewerID.
func MessageItems(viewerID string) func(domain.Message) MessageItem {
	return func(m domain.Message) MessageItem {
		return MessageItem{
			ID:      m.ID,
			Content: m.Content,
			Mine:    m.SenderID == viewerID,
			Time:    m.CreatedAt.Format("2006-01-02 15:04"),
		}
	}
}
