package models

import (
	"strings"
	"time"
)

// PaymentStatus is the payment state of a coupon allocation. Values are the
// strings already present in stored data.
type PaymentStatus string

const (
	PaymentFullyPaid     PaymentStatus = "Lunas"
	PaymentPartiallyPaid PaymentStatus = "DP"
	PaymentUnpaid        PaymentStatus = "Belum Bayar"
	// PaymentUnpaidLegacy is written by older versions; read as unpaid.
	PaymentUnpaidLegacy PaymentStatus = "Belum Lunas"
)

// IsValid reports whether s is one of the statuses accepted on write.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentFullyPaid, PaymentPartiallyPaid, PaymentUnpaid:
		return true
	}
	return false
}

// IsUnpaid treats the legacy spelling as unpaid.
func (s PaymentStatus) IsUnpaid() bool {
	return s == PaymentUnpaid || s == PaymentUnpaidLegacy
}

// ReceiptStatus tracks whether the physical coupon was handed over.
type ReceiptStatus string

const (
	ReceiptReceived    ReceiptStatus = "Diterima"
	ReceiptNotReceived ReceiptStatus = "Belum Diterima"
)

// IsValid reports whether s is a known receipt status.
func (s ReceiptStatus) IsValid() bool {
	return s == ReceiptReceived || s == ReceiptNotReceived
}

// AllocationMode selects how an allocation is computed.
type AllocationMode string

const (
	// ModeDirect allocates explicit coupon numbers.
	ModeDirect AllocationMode = "direct"
	// ModeBooking reserves a quantity; numbers are assigned later.
	ModeBooking AllocationMode = "booking"
)

// Purchase categories.
const (
	CategoryRemaja = "Remaja"
	CategoryNaposo = "Naposo"
	CategoryOther  = "DLL"
)

// Categories lists every accepted purchase category.
var Categories = []string{CategoryRemaja, CategoryNaposo, CategoryOther}

// Zones lists the congregation sub-districts (wijk).
var Zones = []string{
	"Wijk Betlehem",
	"Wijk Jerusalem",
	"Wijk Galilea",
	"Wijk Sion",
	"Wijk Yudea",
	"Wijk Kana",
	"Wijk Efrata",
	"Wijk Betsaida",
	"Wijk Siloam",
	"Wijk Jerikho",
	"Wijk Bethania",
	"DLL",
}

// CouponAllocation is one purchase or booking transaction.
//
// Amount is signed: the full price for Lunas, the paid-so-far figure for DP
// and the negative total for Belum Bayar. Always branch on PaymentStatus
// before reading it.
type CouponAllocation struct {
	ID              string        `bson:"_id,omitempty" json:"id" db:"id"`
	FamilyName      string        `bson:"namaKeluarga" json:"familyName" db:"nama_keluarga"`
	ParticipantName string        `bson:"namaRemaja" json:"participantName" db:"nama_remaja"`
	Category        string        `bson:"kategoriPembelian" json:"category" db:"kategori_pembelian"`
	CouponNumbers   []string      `bson:"nomorKupon" json:"couponNumbers" db:"-"`
	Quantity        int           `bson:"jumlahKupon" json:"quantity" db:"jumlah_kupon"`
	Zone            string        `bson:"wijk" json:"zone" db:"wijk"`
	Amount          int64         `bson:"harga" json:"amount" db:"harga"`
	AmountPaid      int64         `bson:"jumlahDibayar" json:"amountPaid" db:"jumlah_dibayar"`
	PaymentStatus   PaymentStatus `bson:"statusPembayaran" json:"paymentStatus" db:"status_pembayaran"`
	ReceiptStatus   ReceiptStatus `bson:"statusPenerimaan" json:"receiptStatus" db:"status_penerimaan"`
	CreatedAt       time.Time     `bson:"createdAt" json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time     `bson:"updatedAt" json:"updatedAt" db:"updated_at"`
}

// IsBooking reports whether the record reserves a quantity without numbers.
func (c *CouponAllocation) IsBooking() bool {
	return len(c.CouponNumbers) == 0
}

// CouponCount is the stored quantity, falling back to the number list length
// for records written without one.
func (c *CouponAllocation) CouponCount() int {
	if c.Quantity > 0 {
		return c.Quantity
	}
	return len(c.CouponNumbers)
}

// DisplayName returns the participant name, or the family name when empty.
func (c *CouponAllocation) DisplayName() string {
	if c.ParticipantName != "" {
		return c.ParticipantName
	}
	return c.FamilyName
}

// CouponFilter narrows a coupon listing. Empty fields match everything.
type CouponFilter struct {
	Search        string        `form:"search"`
	Zone          string        `form:"zone"`
	PaymentStatus PaymentStatus `form:"paymentStatus"`
	ReceiptStatus ReceiptStatus `form:"receiptStatus"`
}

// NumberSlot is one row of the 1..N number board.
type NumberSlot struct {
	Number          string        `json:"number"`
	Taken           bool          `json:"taken"`
	AllocationID    string        `json:"allocationId,omitempty"`
	FamilyName      string        `json:"familyName,omitempty"`
	ParticipantName string        `json:"participantName,omitempty"`
	Zone            string        `json:"zone,omitempty"`
	PaymentStatus   PaymentStatus `json:"paymentStatus,omitempty"`
	ReceiptStatus   ReceiptStatus `json:"receiptStatus,omitempty"`
}

// Matches reports whether c passes every non-empty field of the filter.
// Search is a case-insensitive substring match on names and numbers.
func (f CouponFilter) Matches(c *CouponAllocation) bool {
	if f.Zone != "" && c.Zone != f.Zone {
		return false
	}
	if f.PaymentStatus != "" {
		if f.PaymentStatus.IsUnpaid() {
			if !c.PaymentStatus.IsUnpaid() {
				return false
			}
		} else if c.PaymentStatus != f.PaymentStatus {
			return false
		}
	}
	if f.ReceiptStatus != "" && c.ReceiptStatus != f.ReceiptStatus {
		return false
	}
	if f.Search == "" {
		return true
	}

	term := strings.ToLower(strings.TrimSpace(f.Search))
	if strings.Contains(strings.ToLower(c.FamilyName), term) ||
		strings.Contains(strings.ToLower(c.ParticipantName), term) {
		return true
	}
	for _, n := range c.CouponNumbers {
		if strings.Contains(n, term) {
			return true
		}
	}
	return false
}
