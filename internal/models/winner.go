package models

import (
	"time"
)

// Winner represents a saved draw result
type Winner struct {
	ID              string    `bson:"_id,omitempty" json:"id" db:"id"`
	CouponNumber    string    `bson:"nomorKupon" json:"couponNumber" db:"nomor_kupon"`
	FamilyName      string    `bson:"namaKeluarga" json:"familyName" db:"nama_keluarga"`
	ParticipantName string    `bson:"namaRemaja" json:"participantName" db:"nama_remaja"`
	Category        string    `bson:"kategoriPembelian" json:"category" db:"kategori_pembelian"`
	Zone            string    `bson:"wijk" json:"zone" db:"wijk"`
	DrawnAt         time.Time `bson:"waktuUndi" json:"drawnAt" db:"waktu_undi"`
	DrawnBy         string    `bson:"drawnBy,omitempty" json:"drawnBy,omitempty" db:"drawn_by"`
}
