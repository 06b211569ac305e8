package tenant

import (
	"time"

	ierr "github.com/mohessea007/FNE/internal/errors"
)

// Company is the tenant. Every invoice, item, snapshot and log row is scoped
// to a company uid; the FNE token is the credential presented to the
// certification authority on the company's behalf.
type Company struct {
	ID                int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UID               string    `json:"uid_companie" gorm:"column:uid_companie;uniqueIndex;size:64"`
	Name              string    `json:"nom" gorm:"column:nom"`
	NCC               string    `json:"ncc" gorm:"column:ncc"`
	FNEToken          string    `json:"-" gorm:"column:token_fne"`
	APIKey            string    `json:"-" gorm:"column:api_key;index"`
	CommercialMessage string    `json:"commercial_message" gorm:"column:commercial_message"`
	Footer            string    `json:"footer" gorm:"column:footer"`
	IsActive          bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt         time.Time `json:"date_creation" gorm:"column:date_creation;autoCreateTime"`
	UpdatedAt         time.Time `json:"date_modification" gorm:"column:date_modification;autoUpdateTime"`
}

func (Company) TableName() string {
	return "companies"
}

func (c *Company) Validate() error {
	if c.UID == "" {
		return ierr.NewError("company uid is required").
			WithHint("Entreprise invalide").
			Mark(ierr.ErrValidation)
	}
	if c.FNEToken == "" {
		return ierr.NewError("company has no FNE token").
			WithHint("L'entreprise n'a pas de token FNE configuré").
			Mark(ierr.ErrInvalidOperation)
	}
	return nil
}

// ClientType is the authority's "template" field (B2B, B2C, B2F, B2G).
type ClientType string

const (
	ClientTypeB2B ClientType = "B2B"
	ClientTypeB2C ClientType = "B2C"
	ClientTypeB2F ClientType = "B2F"
	ClientTypeB2G ClientType = "B2G"
)

// Client is the billed party referenced by an invoice. Only the fields the
// wire payload needs are modeled; client provisioning itself is handled by
// the surrounding application.
type Client struct {
	ID            int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	CompanyUID    string     `json:"uid_companie" gorm:"column:uid_companie;index;size:64"`
	Type          ClientType `json:"type_client" gorm:"column:type_client;default:B2C"`
	NCC           string     `json:"ncc" gorm:"column:ncc"`
	CompanyName   string     `json:"client_company_name" gorm:"column:client_company_name"`
	Phone         string     `json:"client_phone" gorm:"column:client_phone"`
	Email         string     `json:"client_email" gorm:"column:client_email"`
	PointOfSaleID int64      `json:"pointdeventeid" gorm:"column:pointdeventeid"`
	CreatedAt     time.Time  `json:"date_creation" gorm:"column:date_creation;autoCreateTime"`
}

func (Client) TableName() string {
	return "clients"
}

// PointOfSale is the selling location stamped on the wire payload.
type PointOfSale struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	CompanyUID string    `json:"uid_companie" gorm:"column:uid_companie;index;size:64"`
	Name       string    `json:"nom" gorm:"column:nom"`
	IsDefault  bool      `json:"is_default" gorm:"column:is_default"`
	CreatedAt  time.Time `json:"date_creation" gorm:"column:date_creation;autoCreateTime"`
}

func (PointOfSale) TableName() string {
	return "point_de_ventes"
}
