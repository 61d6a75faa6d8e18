package diagnose

// Text holds both language variants of a single string, so adding a class
// touches one struct literal instead of parallel per-language tables.
type Text struct {
	English string
	Arabic  string
}

// In returns the variant for lang. Callers validate lang before lookup;
// anything unrecognized falls back to English rather than panicking.
func (t Text) In(lang Language) string {
	if lang == Arabic {
		return t.Arabic
	}
	return t.English
}

// DiagnosisRecord is the static bilingual knowledge entry for one class.
type DiagnosisRecord struct {
	Name           Text
	Description    Text
	Recommendation Text
}

// LocalizedRecord is a DiagnosisRecord flattened into one language.
type LocalizedRecord struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
}

var records = [NumClasses]DiagnosisRecord{
	Healthy: {
		Name: Text{"Healthy Leaf", "ورقة سليمة"},
		Description: Text{
			"The leaf shows uniform green coloration with no visible signs of nutrient deficiency.",
			"تظهر الورقة لونًا أخضر متجانسًا دون أي علامات ظاهرة لنقص العناصر الغذائية.",
		},
		Recommendation: Text{
			"No corrective fertilization is required. Continue the regular fertilization program and monitor new growth periodically.",
			"لا حاجة إلى تسميد علاجي. استمر في برنامج التسميد المعتاد وراقب النمو الجديد بشكل دوري.",
		},
	},
	NitrogenDeficiency: {
		Name: Text{"Nitrogen Deficiency", "نقص النيتروجين"},
		Description: Text{
			"Older leaves turn pale green to yellow starting from the tip, and overall growth is stunted.",
			"تتحول الأوراق الكبيرة إلى اللون الأخضر الباهت ثم الأصفر بدءًا من الطرف، ويتباطأ النمو العام للنبات.",
		},
		Recommendation: Text{
			"Apply a nitrogen-rich fertilizer such as urea (46% N) at 40-60 kg per acre, split over two applications, and irrigate immediately afterwards.",
			"أضف سمادًا غنيًا بالنيتروجين مثل اليوريا (٤٦٪ نيتروجين) بمعدل ٤٠-٦٠ كجم للفدان على دفعتين مع الري مباشرة بعد الإضافة.",
		},
	},
	ZincDeficiency: {
		Name: Text{"Zinc Deficiency", "نقص الزنك"},
		Description: Text{
			"Young leaves show interveinal chlorosis with shortened internodes and small, narrow leaves.",
			"تظهر الأوراق الحديثة اصفرارًا بين العروق مع قصر السلاميات وصغر حجم الأوراق وضيقها.",
		},
		Recommendation: Text{
			"Spray zinc sulfate as a foliar application at 0.5% concentration, or apply 5-10 kg per acre to the soil before irrigation.",
			"رش كبريتات الزنك رشًا ورقيًا بتركيز ٠٫٥٪، أو أضف ٥-١٠ كجم للفدان إلى التربة قبل الري.",
		},
	},
}

// Record returns the knowledge entry for label in the requested language.
func Record(label ClassLabel, lang Language) (LocalizedRecord, error) {
	if lang != English && lang != Arabic {
		return LocalizedRecord{}, ErrUnsupportedLanguage
	}
	if label < 0 || int(label) >= NumClasses {
		return LocalizedRecord{}, ErrUnknownClass
	}
	rec := records[label]
	return LocalizedRecord{
		Name:           rec.Name.In(lang),
		Description:    rec.Description.In(lang),
		Recommendation: rec.Recommendation.In(lang),
	}, nil
}

// FertilizerRow is one line of the general fertilization reference table.
// The table is display-only and not tied to a specific diagnosis.
type FertilizerRow struct {
	Nutrient Text
	Quantity Text
}

// LocalizedFertilizerRow is a FertilizerRow flattened into one language.
type LocalizedFertilizerRow struct {
	Nutrient string `json:"nutrient"`
	Quantity string `json:"quantity"`
}

var fertilizerRows = []FertilizerRow{
	{Text{"Urea (46% N)", "يوريا (٤٦٪ نيتروجين)"}, Text{"40-60 kg/acre", "٤٠-٦٠ كجم للفدان"}},
	{Text{"Diammonium phosphate (18-46-0)", "فوسفات ثنائي الأمونيوم"}, Text{"30-50 kg/acre", "٣٠-٥٠ كجم للفدان"}},
	{Text{"Potassium sulfate (50% K2O)", "كبريتات البوتاسيوم"}, Text{"25-50 kg/acre", "٢٥-٥٠ كجم للفدان"}},
	{Text{"Zinc sulfate", "كبريتات الزنك"}, Text{"5-10 kg/acre", "٥-١٠ كجم للفدان"}},
	{Text{"Chelated iron (Fe-EDDHA)", "حديد مخلبي"}, Text{"2-5 kg/acre", "٢-٥ كجم للفدان"}},
}

// FertilizerTable returns the static reference table in the requested language.
func FertilizerTable(lang Language) ([]LocalizedFertilizerRow, error) {
	if lang != English && lang != Arabic {
		return nil, ErrUnsupportedLanguage
	}
	rows := make([]LocalizedFertilizerRow, len(fertilizerRows))
	for i, row := range fertilizerRows {
		rows[i] = LocalizedFertilizerRow{
			Nutrient: row.Nutrient.In(lang),
			Quantity: row.Quantity.In(lang),
		}
	}
	return rows, nil
}

// TableColumns returns the fertilizer table headers in display order.
// Arabic reverses the column order for right-to-left reading.
func TableColumns(lang Language) ([]string, error) {
	switch lang {
	case English:
		return []string{"Nutrient Source", "Recommended Quantity"}, nil
	case Arabic:
		return []string{"الكمية الموصى بها", "مصدر العنصر"}, nil
	}
	return nil, ErrUnsupportedLanguage
}
