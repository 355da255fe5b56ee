package models

// Link is a footer social link. Label doubles as the tracking label.
type Link struct {
	Label string `json:"label" mapstructure:"label"`
	Name  string `json:"name" mapstructure:"name"`
	Href  string `json:"href" mapstructure:"href"`
}

// Profile is the content of the profile card.
type Profile struct {
	Name        string `json:"name" mapstructure:"name"`
	Role        string `json:"role" mapstructure:"role"`
	Description string `json:"description" mapstructure:"description"`
	Title       string `json:"title" mapstructure:"title"`
	Summary     string `json:"summary" mapstructure:"summary"`
	SiteURL     string `json:"site_url" mapstructure:"site_url"`
	Image       string `json:"image" mapstructure:"image"`
	SocialImage string `json:"social_image" mapstructure:"social_image"`
	AMAText     string `json:"ama_text" mapstructure:"ama_text"`
	Links       []Link `json:"links" mapstructure:"links"`
}
