package invoicelog

import (
	"time"
)

// InvoiceLog is the immutable audit record written for every authority
// interaction, success and failure alike: one row per gateway call, never
// updated, never deleted. It outlives the invoice it references.
type InvoiceLog struct {
	ID            int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	CompanyID     int64  `json:"uid_companie" gorm:"column:companieid;index"`
	PointOfSaleID int64  `json:"pointdeventeid" gorm:"column:pointdeventeid"`
	InvoiceID     int64  `json:"uid_invoice" gorm:"column:invoiceid;index"`
	DataSent      []byte `json:"data_send" gorm:"column:data_send;type:jsonb"`
	DataReceived  []byte `json:"data_receved" gorm:"column:data_receved;type:jsonb"`
	ResponseCode  string `json:"code_response" gorm:"column:code_response"`
	ResponseMsg   string `json:"msg_response" gorm:"column:msg_response"`

	// UserID is 0 for API-key originated calls.
	UserID        int64     `json:"userid" gorm:"column:userid"`
	TokenReceived *string   `json:"token_receced,omitempty" gorm:"column:token_receced"`
	CreatedAt     time.Time `json:"date_creation" gorm:"column:date_creation;autoCreateTime"`
}

func (InvoiceLog) TableName() string {
	return "invoice_logs"
}
