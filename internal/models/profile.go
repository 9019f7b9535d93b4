package models

import (
	"time"
)

// Badge names awarded by the stats aggregator. Badges accumulate and are
// never revoked, even if the underlying stat later drops below its threshold.
const (
	BadgeEarlyAdopter    = "early_adopter"
	BadgeExpertWriter    = "expert_writer"
	BadgeHelpfulMember   = "helpful_member"
	BadgeTopContributor  = "top_contributor"
	BadgeCommunityLeader = "community_leader"
)

// SocialLinks holds a profile's external links.
type SocialLinks struct {
	Twitter  string `json:"twitter,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Website  string `json:"website,omitempty"`
}

// ProfileStats is the denormalized stats sub-record. It is resynchronized
// from authoritative counts over posts and comments rather than trusted
// incrementally; CommentsCount alone is also adjusted best-effort on comment
// create/delete.
type ProfileStats struct {
	PostsCount    int `gorm:"default:0" json:"posts_count"`
	CommentsCount int `gorm:"default:0" json:"comments_count"`
	ViewsCount    int `gorm:"default:0" json:"views_count"`
	LikesReceived int `gorm:"default:0" json:"likes_received"`
}

// UserProfile is the one-to-one profile record for an account. It is lazily
// created on first access and never deleted.
type UserProfile struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	UserID      uint         `gorm:"not null;uniqueIndex" json:"user_id"`
	User        User         `gorm:"foreignKey:UserID" json:"user"`
	Bio         string       `gorm:"size:500" json:"bio"`
	Avatar      string       `json:"avatar"`
	SocialLinks SocialLinks  `gorm:"embedded;embeddedPrefix:social_" json:"social_links"`
	Location    string       `gorm:"size:100" json:"location"`
	Website     string       `gorm:"size:200" json:"website"`
	Skills      []string     `gorm:"serializer:json" json:"skills"`
	Interests   []string     `gorm:"serializer:json" json:"interests"`
	Badges      []string     `gorm:"serializer:json" json:"badges"`
	Stats       ProfileStats `gorm:"embedded;embeddedPrefix:stats_" json:"stats"`
	IsPublic    bool         `gorm:"default:true" json:"is_public"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// HasBadge reports whether the badge was already awarded.
func (p *UserProfile) HasBadge(name string) bool {
	for _, b := range p.Badges {
		if b == name {
			return true
		}
	}
	return false
}

// AwardBadges unions the earned badges for the current stats into the badge
// set and reports whether anything new was added.
func (p *UserProfile) AwardBadges() bool {
	earned := []string{}
	if p.Stats.PostsCount >= 1 {
		earned = append(earned, BadgeEarlyAdopter)
	}
	if p.Stats.PostsCount >= 10 {
		earned = append(earned, BadgeExpertWriter)
	}
	if p.Stats.CommentsCount >= 25 {
		earned = append(earned, BadgeHelpfulMember)
	}
	if p.Stats.LikesReceived >= 50 {
		earned = append(earned, BadgeTopContributor)
	}
	if p.Stats.PostsCount >= 20 && p.Stats.CommentsCount >= 50 {
		earned = append(earned, BadgeCommunityLeader)
	}

	added := false
	for _, b := range earned {
		if !p.HasBadge(b) {
			p.Badges = append(p.Badges, b)
			added = true
		}
	}
	return added
}
