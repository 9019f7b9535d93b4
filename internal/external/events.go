package external

// TechEvent is a curated upcoming industry event.
type TechEvent struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Image       string `json:"image"`
}

// TechEvents returns the curated event list. The set is static; there is no
// upstream events API behind it.
func TechEvents() []TechEvent {
	return []TechEvent{
		{
			ID:          1,
			Title:       "AI & Machine Learning Summit 2026",
			Date:        "2026-03-15",
			Location:    "San Francisco, CA",
			Description: "Join industry leaders discussing the future of AI and ML technologies.",
			Category:    "AI",
			Image:       "https://images.unsplash.com/photo-1485827404703-89b55fcc595e?w=800",
		},
		{
			ID:          2,
			Title:       "Tech Innovation Conference",
			Date:        "2026-04-20",
			Location:    "New York, NY",
			Description: "Explore cutting-edge innovations in technology and digital transformation.",
			Category:    "Technology",
			Image:       "https://images.unsplash.com/photo-1540575467063-178a50c2df87?w=800",
		},
		{
			ID:          3,
			Title:       "Future of Computing Expo",
			Date:        "2026-05-10",
			Location:    "London, UK",
			Description: "Discover the next generation of computing technologies and quantum computing.",
			Category:    "Computing",
			Image:       "https://images.unsplash.com/photo-1531482615713-2afd69097998?w=800",
		},
		{
			ID:          4,
			Title:       "Robotics & Automation Summit",
			Date:        "2026-06-05",
			Location:    "Tokyo, Japan",
			Description: "Experience the latest in robotics, automation, and industrial AI.",
			Category:    "Robotics",
			Image:       "https://images.unsplash.com/photo-1563207153-f403bf289096?w=800",
		},
		{
			ID:          5,
			Title:       "Cybersecurity World Forum",
			Date:        "2026-07-18",
			Location:    "Berlin, Germany",
			Description: "Learn about emerging threats and advanced security solutions.",
			Category:    "Security",
			Image:       "https://images.unsplash.com/photo-1550751827-4bd374c3f58b?w=800",
		},
	}
}
