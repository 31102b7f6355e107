package knowledge

// Document is one knowledge-base entry.
type Document struct {
	Title   string
	Content string
}

// SeedGlossary is the built-in parameter and procedure glossary used when
// no external documents are loaded. Content stays in the language agents
// answer in.
func SeedGlossary() []Document {
	return []Document{
		{
			Title: "RSRP (Reference Signal Received Power)",
			Content: "RSRP adalah kekuatan sinyal referensi yang diterima perangkat dari cell LTE, " +
				"diukur dalam dBm. Nilai di atas -80 dBm sangat baik, -80 sampai -100 dBm normal, " +
				"di bawah -110 dBm menandakan coverage lemah. Keluhan sinyal lemah biasanya berkorelasi " +
				"dengan RSRP rendah pada cell serving.",
		},
		{
			Title: "SINR (Signal to Interference plus Noise Ratio)",
			Content: "SINR mengukur kualitas sinyal relatif terhadap interferensi dan noise, dalam dB. " +
				"SINR di atas 20 dB sangat baik, 13-20 dB baik, 0-13 dB cukup, di bawah 0 dB buruk. " +
				"SINR rendah dengan RSRP normal biasanya menandakan interferensi antar cell, bukan masalah coverage.",
		},
		{
			Title: "RSRQ (Reference Signal Received Quality)",
			Content: "RSRQ menggabungkan kekuatan sinyal dan tingkat interferensi, dalam dB. " +
				"Nilai di atas -10 dB baik, -10 sampai -15 dB cukup, di bawah -15 dB buruk. " +
				"Gunakan RSRQ bersama RSRP untuk membedakan masalah coverage dari masalah kualitas.",
		},
		{
			Title: "Handover",
			Content: "Handover adalah perpindahan koneksi perangkat antar cell saat pelanggan bergerak. " +
				"Kegagalan handover menyebabkan drop call atau koneksi data terputus sesaat. " +
				"Keluhan koneksi putus-putus saat berkendara biasanya mengarah ke parameter handover " +
				"atau neighbor list yang belum lengkap.",
		},
		{
			Title: "Carrier Aggregation",
			Content: "Carrier aggregation menggabungkan beberapa carrier frekuensi untuk menaikkan throughput. " +
				"Perangkat harus mendukung kombinasi band yang dipakai site. Keluhan kecepatan rendah pada " +
				"perangkat lama bisa terjadi karena perangkat tidak mendukung kombinasi carrier yang tersedia.",
		},
		{
			Title: "Troubleshooting Internet Lambat",
			Content: "Langkah penanganan keluhan internet lambat: 1. Cek RSRP dan SINR di lokasi pelanggan. " +
				"2. Cek utilisasi cell serving, utilisasi di atas 80% menandakan congestion. " +
				"3. Cek availability site terdekat. 4. Cek tipe perangkat dan SIM capability pelanggan. " +
				"5. Bila semua normal, cek konfigurasi APN dan paket data pelanggan.",
		},
		{
			Title: "Troubleshooting Tidak Ada Sinyal",
			Content: "Langkah penanganan keluhan no service: 1. Pastikan tidak ada site down di area tersebut. " +
				"2. Cek coverage prediction untuk lokasi pelanggan. 3. Cek apakah area terhalang gedung atau kontur. " +
				"4. Minta pelanggan coba mode jaringan manual dan restart perangkat. " +
				"5. Bila persisten, buat tiket dengan koordinat lokasi untuk analisis RF.",
		},
		{
			Title: "SOP Eskalasi Keluhan",
			Content: "Keluhan yang belum selesai dalam 3x24 jam dieskalasi dari L1 ke L2. " +
				"Keluhan pelanggan korporat dan pelanggan prioritas dieskalasi langsung ke L2 dengan prioritas High. " +
				"Eskalasi ke L3 hanya untuk masalah yang membutuhkan perubahan konfigurasi jaringan. " +
				"Setiap eskalasi wajib menyertakan hasil analisis teknis level sebelumnya.",
		},
		{
			Title: "Prioritas Penanganan Tiket",
			Content: "Prioritas High: gangguan massal, pelanggan korporat, pelanggan VIP. " +
				"Prioritas Medium: keluhan individual berulang atau berumur lebih dari 24 jam. " +
				"Prioritas Low: keluhan individual pertama dengan dampak terbatas. " +
				"Prioritas menentukan SLA penyelesaian: High 1x24 jam, Medium 2x24 jam, Low 3x24 jam.",
		},
		{
			Title: "Coverage dan Dominant Cell",
			Content: "Dominant cell adalah cell dengan sinyal terkuat di suatu lokasi. Area tanpa cell dominan " +
				"mengalami ping-pong handover dan kualitas tidak stabil. Perbaikan dilakukan dengan menaikkan " +
				"RS Power, uptilt, atau reazimuth antena agar satu cell menjadi dominan.",
		},
		{
			Title: "SIM Capability",
			Content: "SIM lama (non-USIM) tidak mendukung jaringan 4G/5G. Pelanggan dengan keluhan tidak bisa " +
				"akses 4G padahal coverage bagus perlu dicek SIM capability-nya; bila masih 3G-only, " +
				"arahkan upgrade kartu ke GraPARI terdekat tanpa ganti nomor.",
		},
		{
			Title: "Parameter Availability Site",
			Content: "Availability mengukur persentase waktu site beroperasi normal. Availability di bawah 99% " +
				"menandakan site sering down dan menjadi kandidat penyebab keluhan berulang di area tersebut. " +
				"Selalu crosscheck availability site terdekat sebelum menyimpulkan masalah di sisi pelanggan.",
		},
	}
}
