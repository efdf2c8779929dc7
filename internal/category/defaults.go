package category

// DefaultTable returns the built-in table for Indonesian business news.
func DefaultTable() Table {
	t, err := NewTable(defaultCategories, "Insight")
	if err != nil {
		panic(err)
	}
	return t
}

var defaultCategories = []Category{
	{Label: "Market", Keywords: []string{
		"saham", "bursa", "ihsg", "pasar modal", "investor", "investasi", "obligasi", "reksadana",
		"trading", "emiten", "dividen", "idx", "bei", "ipo",
	}},
	{Label: "Bisnis", Keywords: []string{
		"bisnis", "perusahaan", "ceo", "startup", "umkm", "usaha", "industri", "perdagangan",
		"ekspor", "impor", "manufaktur", "retail", "brand", "produk", "pelaku usaha", "wirausaha",
	}},
	{Label: "Finansial", Keywords: []string{
		"bank", "keuangan", "kredit", "fintech", "rupiah", "inflasi", "bi ", "ojk", "asuransi",
		"pajak", "anggaran", "apbn", "fiskal", "moneter", "suku bunga", "ekonomi",
	}},
	{Label: "Tech", Keywords: []string{
		"teknologi", "digital", "internet", "aplikasi", "smartphone", "gadget", "ai ", "artificial",
		"robot", "komputer", "software", "hardware", "google", "apple", "microsoft", "samsung",
		"inovasi", "cyber", "data", "cloud", "programming", "coding",
	}},
	{Label: "Insight", Keywords: []string{
		"analisis", "riset", "studi", "survei", "laporan", "penelitian", "tren", "prediksi",
		"outlook", "review", "kajian",
	}},
	{Label: "Lifestyle", Keywords: []string{
		"lifestyle", "gaya hidup", "travel", "wisata", "kuliner", "fashion", "kesehatan", "health",
		"food", "resep", "hotel", "destinasi", "liburan", "olahraga", "sport", "hiburan", "musik",
		"film", "seni", "budaya", "ramadan", "lebaran", "natal", "tahun baru",
	}},
	{Label: "Opini", Keywords: []string{
		"opini", "kolom", "editorial", "pendapat", "pandangan", "esai", "kritik", "gagasan",
	}},
}
