package models

// Statistics is the dashboard roll-up over all coupon allocations.
// Coupon totals count coupons, not records.
type Statistics struct {
	TotalPartisipan    int   `json:"totalPartisipan"`
	TotalKupon         int   `json:"totalKupon"`
	TotalLunas         int   `json:"totalLunas"`
	TotalDP            int   `json:"totalDP"`
	TotalBelumLunas    int   `json:"totalBelumLunas"`
	TotalPemasukan     int64 `json:"totalPemasukan"`
	TotalDiterima      int   `json:"totalDiterima"`
	TotalBelumDiterima int   `json:"totalBelumDiterima"`
}
