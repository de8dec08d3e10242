package gateway

// FlexMessage is a LINE flex message carrying a single bubble.
type FlexMessage struct {
	Type     string  `json:"type"`
	AltText  string  `json:"altText"`
	Contents *Bubble `json:"contents"`
}

// Bubble is a flex container with optional hero, body and footer.
type Bubble struct {
	Type   string     `json:"type"`
	Hero   *Component `json:"hero,omitempty"`
	Body   *Component `json:"body,omitempty"`
	Footer *Component `json:"footer,omitempty"`
}

// Component covers the box, text, image and button components used here.
type Component struct {
	Type        string      `json:"type"`
	Layout      string      `json:"layout,omitempty"`
	Contents    []Component `json:"contents,omitempty"`
	Text        string      `json:"text,omitempty"`
	Weight      string      `json:"weight,omitempty"`
	Size        string      `json:"size,omitempty"`
	Wrap        bool        `json:"wrap,omitempty"`
	URL         string      `json:"url,omitempty"`
	AspectRatio string      `json:"aspectRatio,omitempty"`
	AspectMode  string      `json:"aspectMode,omitempty"`
	Style       string      `json:"style,omitempty"`
	Color       string      `json:"color,omitempty"`
	Action      *Action     `json:"action,omitempty"`
}

// Action is a tap action on a button.
type Action struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	URI   string `json:"uri"`
}

func (f *FlexMessage) valid() bool {
	return f != nil && f.Type == "flex" && f.Contents != nil
}

// PromotionCard renders a product promotion bubble: hero image, title,
// description and an order button linking to link.
func PromotionCard(productName, description, link, imageURL string) *FlexMessage {
	body := []Component{{Type: "text", Text: productName, Weight: "bold", Size: "lg", Wrap: true}}
	if description != "" {
		body = append(body, Component{Type: "text", Text: description, Size: "sm", Wrap: true})
	}

	return &FlexMessage{
		Type:    "flex",
		AltText: "📢 โปรโมชันใหม่: " + productName,
		Contents: &Bubble{
			Type: "bubble",
			Hero: &Component{
				Type:        "image",
				URL:         imageURL,
				Size:        "full",
				AspectRatio: "20:13",
				AspectMode:  "cover",
			},
			Body: &Component{
				Type:   "box",
				Layout: "vertical",
				Contents: body,
			},
			Footer: &Component{
				Type:   "box",
				Layout: "vertical",
				Contents: []Component{{
					Type:   "button",
					Style:  "primary",
					Color:  "#f97316",
					Action: &Action{Type: "uri", Label: "🛒 สั่งซื้อเลย", URI: link},
				}},
			},
		},
	}
}
