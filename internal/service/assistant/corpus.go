package assistant

import "strings"

// conditionEntry is one knowledge-base record for a common skin
// condition, rendered as a single reply when matched.
type conditionEntry struct {
	name        string
	description string
	causes      []string
	treatments  []string
}

func (e conditionEntry) reply() string {
	return e.description +
		"\n\nCommon causes include: " + strings.Join(e.causes, ", ") + "." +
		"\n\nTreatments may include: " + strings.Join(e.treatments, ", ") + "."
}

var conditionEntries = []conditionEntry{
	{
		name:        "acne",
		description: "A common skin condition characterized by pimples, blackheads, and whiteheads due to clogged hair follicles.",
		causes: []string{
			"Excess oil production",
			"Bacteria",
			"Inflammation",
			"Clogged hair follicles",
			"Hormonal changes",
		},
		treatments: []string{
			"Topical treatments with benzoyl peroxide or salicylic acid",
			"Oral antibiotics for moderate to severe cases",
			"Retinoids for persistent acne",
			"Hormonal therapies for women with hormonal acne",
		},
	},
	{
		name:        "eczema",
		description: "A chronic skin condition characterized by itchy, inflamed skin that may become cracked, rough, and scaly.",
		causes: []string{
			"Genetic factors",
			"Environmental triggers",
			"Immune system dysfunction",
			"Skin barrier defects",
		},
		treatments: []string{
			"Regular moisturizing with emollients",
			"Topical corticosteroids for flare-ups",
			"Avoiding triggers such as irritants and allergens",
			"Antihistamines for severe itching",
			"Phototherapy for widespread eczema",
		},
	},
	{
		name:        "psoriasis",
		description: "A chronic autoimmune condition that causes rapid skin cell growth, resulting in thick, scaly patches.",
		causes: []string{
			"Immune system dysfunction",
			"Genetic factors",
			"Environmental triggers like stress, injury, or infection",
		},
		treatments: []string{
			"Topical corticosteroids",
			"Vitamin D analogs",
			"Phototherapy",
			"Systemic medications for severe cases",
			"Biologics targeting specific parts of the immune system",
		},
	},
	{
		name:        "rosacea",
		description: "A chronic inflammatory skin condition that primarily affects the face, causing redness, visible blood vessels, and sometimes bumps.",
		causes: []string{
			"Blood vessel abnormalities",
			"Demodex mites",
			"Genetic factors",
			"Environmental factors",
			"Certain foods and beverages",
		},
		treatments: []string{
			"Topical medications to reduce inflammation",
			"Oral antibiotics for more severe cases",
			"Laser therapy for visible blood vessels",
			"Avoiding triggers like spicy foods, alcohol, and extreme temperatures",
		},
	},
}

// faqEntries answer recurring product and care questions; the question
// text itself is the match keyword.
var faqEntries = []struct {
	question string
	answer   string
}{
	{
		question: "What type of skin condition do I have?",
		answer:   "To identify your skin condition, please use our AI analysis tool by uploading a clear image of the affected area. Our system will analyze it and provide a preliminary assessment. For a definitive diagnosis, always consult with a healthcare professional.",
	},
	{
		question: "Is SkinSewa's analysis accurate?",
		answer:   "SkinSewa uses advanced Gemini AI trained on thousands of dermatological images to provide accurate assessments. While our system achieves high accuracy rates, it's designed as a preliminary screening tool. Always consult with a healthcare professional for a definitive diagnosis.",
	},
	{
		question: "How can I prevent acne?",
		answer:   "To prevent acne: wash your face twice daily with a gentle cleanser, use non-comedogenic moisturizers and makeup, avoid touching your face, clean items that touch your face regularly (like phone screens), maintain a healthy diet, stay hydrated, and manage stress. If acne persists, consult a dermatologist.",
	},
	{
		question: "What treatments are available for eczema?",
		answer:   "Eczema treatments include: regular moisturizing with emollients, topical corticosteroids for flare-ups, calcineurin inhibitors, antihistamines for itching, phototherapy, and in severe cases, oral immunosuppressants or biologics. Identifying and avoiding triggers is also important. Consult a dermatologist for a personalized treatment plan.",
	},
	{
		question: "Is my skin condition contagious?",
		answer:   "Most common skin conditions like acne, eczema, psoriasis, and rosacea are not contagious. However, some skin conditions such as fungal infections, scabies, and impetigo are contagious. Use our AI analysis tool for an initial assessment, but consult a healthcare professional for a definitive diagnosis.",
	},
	{
		question: "How does the AI analysis work?",
		answer:   "Our AI analysis works by processing an image of your skin condition through our Gemini AI system, which has been trained on thousands of dermatological images. It identifies visual patterns and matches them against known skin conditions. The system also considers additional information you provide, such as symptoms and medical history, to deliver a more accurate assessment.",
	},
	{
		question: "Is my data secure?",
		answer:   "Yes, we take your privacy seriously. All images and personal information are encrypted and stored securely. We do not share your data with third parties without your explicit consent. Images are only used for providing you with analysis results and, if you opt-in, for improving our AI system's accuracy.",
	},
	{
		question: "Can children use SkinSewa?",
		answer:   "Children can benefit from SkinSewa's analysis, but we recommend that parents or guardians manage the process. Children's skin can be more sensitive and may present conditions differently than adults. Always consult with a pediatrician or pediatric dermatologist for skin concerns in children.",
	},
}

// regionalEntries carry India-specific guidance keyed by their own
// keyword groups.
var regionalEntries = []struct {
	keywords []string
	answer   string
}{
	{
		keywords: []string{"india", "indian", "climate", "weather"},
		answer:   "India's diverse climate affects skin conditions differently across regions. High humidity in coastal areas can exacerbate fungal infections, while dry heat in northern regions may worsen eczema symptoms.",
	},
	{
		keywords: []string{"indian skin", "skin type", "skin tone", "dark skin", "brown skin"},
		answer:   "Indian skin tones range from fair to deep brown, with most people having Fitzpatrick skin types III-VI. Darker skin tones are more prone to hyperpigmentation and may show inflammation differently than lighter skin.",
	},
	{
		keywords: []string{"common conditions", "india conditions", "prevalent"},
		answer:   "Common skin conditions in India include melasma (especially in women), post-inflammatory hyperpigmentation, fungal infections due to humid climate, acne, and vitiligo. Tropical conditions like prickly heat are also prevalent during summer months.",
	},
	{
		keywords: []string{"ayurvedic", "traditional", "natural", "herbal"},
		answer:   "Traditional Ayurvedic remedies for skin conditions include turmeric paste for inflammation, neem for acne and fungal infections, aloe vera for burns and irritation, and sandalwood for cooling and soothing irritated skin.",
	},
	{
		keywords: []string{"local treatment", "india treatment", "hospitals", "clinics"},
		answer:   "Many effective treatments are available in India through government hospitals, AIIMS centers, and private clinics. Programs like Ayushman Bharat provide coverage for skin condition treatments for eligible citizens.",
	},
}

type rule struct {
	keywords []string
	response string
}

// buildRules flattens the corpus into keyword-matching rules; condition
// entries match on the condition name and on any of its listed causes
// or treatments.
func buildRules() []rule {
	var rules []rule

	for _, faq := range faqEntries {
		rules = append(rules, rule{
			keywords: []string{strings.ToLower(faq.question)},
			response: faq.answer,
		})
	}

	for _, cond := range conditionEntries {
		keywords := []string{cond.name}
		for _, kw := range append(cond.causes, cond.treatments...) {
			keywords = append(keywords, strings.ToLower(kw))
		}
		rules = append(rules, rule{keywords: keywords, response: cond.reply()})
	}

	for _, regional := range regionalEntries {
		rules = append(rules, rule{keywords: regional.keywords, response: regional.answer})
	}

	return rules
}
