package smartcare

import (
	"fmt"
	"strings"
)

// LookupInfo carries the resolved number and window for narrative text.
type LookupInfo struct {
	Display    string // 628-xxx-xxx-xxx form
	Normalized string // 628... form
	Operator   string
	StartTime  string
	EndTime    string
	Period     string // human phrase for the window
}

// NotTelkomselMessage is the gate response for valid numbers on other
// carriers. No upstream call may happen before this check.
func NotTelkomselMessage(display string) string {
	return fmt.Sprintf("Nomor %s bukan nomor Telkomsel. Sistem hanya mendukung analisis nomor Telkomsel.", display)
}

// MaintenanceMessage is the response when the upstream API is down.
func MaintenanceMessage(display string) string {
	return fmt.Sprintf(`🔧 **Layanan SmartCare Sedang Maintenance**

**Nomor:** %s (Telkomsel)
**Status:** API server sedang dalam perbaikan

⏳ **Mohon tunggu beberapa saat dan coba lagi.**
📞 **Atau hubungi customer service untuk bantuan langsung.**`, display)
}

// NoDataNarrative is the response when the window holds no measurements.
func NoDataNarrative(info LookupInfo) string {
	return fmt.Sprintf("📱 **Data untuk nomor %s**\n\n❌ Tidak ada data ditemukan untuk periode %s.",
		info.Display, info.Period)
}

// UsageNarrative focuses on traffic volume and connection quality.
func UsageNarrative(info LookupInfo, stats Stats) string {
	traffic := fmt.Sprintf("%.2f MB", stats.TotalTraffic)
	if stats.TotalTraffic >= 1024 {
		traffic = fmt.Sprintf("%.2f GB", stats.TotalTraffic/1024)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📱 **Analisis Penggunaan Data**\n\n")
	fmt.Fprintf(&b, "**Nomor:** %s (%s)\n", info.Display, info.Operator)
	fmt.Fprintf(&b, "**Periode:** %s\n\n", info.Period)
	fmt.Fprintf(&b, "📊 **Ringkasan Penggunaan:**\n")
	fmt.Fprintf(&b, "• Total Traffic: %s\n", traffic)
	fmt.Fprintf(&b, "• Score Rata-rata: %.1f/100\n", stats.AvgScore)
	fmt.Fprintf(&b, "• Peak Usage: %.2f MB pada %s\n", stats.PeakTraffic, stats.PeakTrafficTime)
	fmt.Fprintf(&b, "• Jam Aktif: %d dari %d jam\n", stats.ActiveHours, stats.DataPoints)

	switch {
	case stats.TotalTraffic == 0:
		b.WriteString("\nℹ️ **Insight:** Tidak ada aktivitas data terdeteksi pada periode ini.")
	case stats.TotalTraffic < 1:
		b.WriteString("\nℹ️ **Insight:** Penggunaan data sangat rendah, mostly idle.")
	case stats.TotalTraffic > 100:
		b.WriteString("\nℹ️ **Insight:** Penggunaan data tinggi, kemungkinan heavy usage periode.")
	}

	if stats.AvgScore > 0 {
		switch {
		case stats.AvgScore >= 80:
			b.WriteString("\n✅ **Kualitas:** Score tinggi, koneksi sangat baik.")
		case stats.AvgScore >= 60:
			b.WriteString("\n⚠️ **Kualitas:** Score sedang, koneksi cukup stabil.")
		default:
			b.WriteString("\n❌ **Kualitas:** Score rendah, ada gangguan koneksi.")
		}
	}

	return b.String()
}

// HistoryNarrative lists the significant hourly periods as a timeline.
func HistoryNarrative(info LookupInfo, stats Stats, history []HistoryEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📱 **Riwayat Aktivitas Data**\n\n")
	fmt.Fprintf(&b, "**Nomor:** %s (%s)\n", info.Display, info.Operator)
	fmt.Fprintf(&b, "**Periode:** %s\n\n", info.Period)
	b.WriteString("📈 **Timeline Aktivitas:**\n")

	var active []string
	for _, entry := range history {
		traffic := float64(entry.TotalTraffic)
		if traffic <= 1 {
			continue
		}
		timeStr := entry.Text
		if _, clock, found := strings.Cut(entry.Text, " "); found {
			timeStr = clock
		}
		active = append(active, fmt.Sprintf("• %s: %.1f MB", timeStr, traffic))
	}

	if len(active) == 0 {
		b.WriteString("• Tidak ada aktivitas signifikan terdeteksi")
	} else {
		shown := active
		if len(shown) > 10 {
			shown = shown[:10]
		}
		b.WriteString(strings.Join(shown, "\n"))
		if rest := len(active) - len(shown); rest > 0 {
			fmt.Fprintf(&b, "\n... dan %d periode lainnya", rest)
		}
	}

	fmt.Fprintf(&b, "\n\n📊 **Statistik:**\n")
	fmt.Fprintf(&b, "• Total: %.2f MB\n", stats.TotalTraffic)
	fmt.Fprintf(&b, "• Peak: %.2f MB\n", stats.PeakTraffic)
	fmt.Fprintf(&b, "• Jam Aktif: %d/%d", stats.ActiveHours, stats.DataPoints)

	return b.String()
}

// DetailNarrative is the full technical dump including latency grading.
func DetailNarrative(info LookupInfo, stats Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📱 **Detail Teknis Lengkap**\n\n")
	fmt.Fprintf(&b, "**Informasi Nomor:**\n")
	fmt.Fprintf(&b, "• MSISDN: %s\n", info.Display)
	fmt.Fprintf(&b, "• Format Internal: %s\n", info.Normalized)
	fmt.Fprintf(&b, "• Operator: %s\n\n", info.Operator)
	fmt.Fprintf(&b, "**Periode Analisis:**\n")
	fmt.Fprintf(&b, "• Waktu: %s - %s\n", info.StartTime, info.EndTime)
	fmt.Fprintf(&b, "• Durasi: %s\n\n", info.Period)
	fmt.Fprintf(&b, "**Metrik Performa:**\n")
	fmt.Fprintf(&b, "• Total Traffic: %.2f MB\n", stats.TotalTraffic)
	fmt.Fprintf(&b, "• Average Score: %.1f/100\n", stats.AvgScore)
	fmt.Fprintf(&b, "• Average Latency: %.1f ms\n", stats.AvgLatency)
	fmt.Fprintf(&b, "• Peak Traffic: %.2f MB pada %s\n\n", stats.PeakTraffic, stats.PeakTrafficTime)
	fmt.Fprintf(&b, "**Data Points:** %d jam dianalisis\n", stats.DataPoints)
	fmt.Fprintf(&b, "**Active Periods:** %d jam dengan aktivitas\n", stats.ActiveHours)

	if stats.AvgLatency > 0 {
		switch {
		case stats.AvgLatency < 30:
			b.WriteString("\n🟢 **Latency:** Sangat baik (< 30ms)")
		case stats.AvgLatency < 50:
			b.WriteString("\n🟡 **Latency:** Normal (30-50ms)")
		default:
			b.WriteString("\n🔴 **Latency:** Tinggi (> 50ms)")
		}
	}

	return b.String()
}

// CheckNarrative is the default quick-status response.
func CheckNarrative(info LookupInfo, stats Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📱 **Status Check - %s**\n\n", info.Display)
	fmt.Fprintf(&b, "✅ Data berhasil diambil untuk periode %s\n\n", info.Period)
	fmt.Fprintf(&b, "📊 **Quick Stats:**\n")
	fmt.Fprintf(&b, "• Total Traffic: %.2f MB\n", stats.TotalTraffic)
	fmt.Fprintf(&b, "• Quality Score: %.1f/100\n", stats.AvgScore)
	fmt.Fprintf(&b, "• Data Points: %d jam\n\n", stats.DataPoints)
	fmt.Fprintf(&b, "💡 *Gunakan 'grafik %s' untuk visualisasi atau 'detail %s' untuk analisis mendalam.*",
		info.Normalized, info.Normalized)
	return b.String()
}
