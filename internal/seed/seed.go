// Package seed provides database seeding utilities for development and
// testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var categoryPresets = []models.Category{
	{Name: "Technology", Description: "Programming, tools and infrastructure", Color: "#3B82F6"},
	{Name: "Science", Description: "Research, discoveries and explainers", Color: "#10B981"},
	{Name: "Design", Description: "UI, UX and visual craft", Color: "#F59E0B"},
	{Name: "Career", Description: "Growth, hiring and work culture", Color: "#8B5CF6"},
	{Name: "Opinion", Description: "Essays and hot takes", Color: "#EF4444"},
}

// Seed populates the database with demo data.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding database with %d users and %d posts...", opts.NumUsers, opts.NumPosts)
	gofakeit.Seed(time.Now().UnixNano())

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	categories, err := createCategories(db)
	if err != nil {
		return fmt.Errorf("failed to create categories: %w", err)
	}
	log.Printf("created %d categories", len(categories))

	posts, err := createPosts(db, users, categories, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	if err := createComments(db, users, posts); err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}

	if err := createLikes(db, users, posts); err != nil {
		return fmt.Errorf("failed to create likes: %w", err)
	}

	if err := createSubscribers(db, users); err != nil {
		return fmt.Errorf("failed to create subscribers: %w", err)
	}

	log.Println("Database seeding completed")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE comment_reports, comment_likes, comments, post_likes, posts,
		categories, user_profiles, subscribers, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(db *gorm.DB, count int) ([]models.User, error) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("Password123!abc"), bcrypt.DefaultCost)

	users := []models.User{
		{
			Username: "admin",
			Email:    "admin@inkwell.dev",
			Password: string(hashedPassword),
			Role:     models.RoleAdmin,
		},
	}
	for i := 1; i < count; i++ {
		users = append(users, models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(10, 999)),
			Email:    gofakeit.Email(),
			Password: string(hashedPassword),
			Role:     models.RoleUser,
		})
	}

	if err := db.Create(&users).Error; err != nil {
		return nil, err
	}

	// Profiles are lazily created on access, but seeding them up front makes
	// the demo profile pages non-empty.
	for i := range users {
		profile := models.UserProfile{
			UserID:   users[i].ID,
			Bio:      gofakeit.Sentence(12),
			Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", users[i].Username),
			Location: gofakeit.City(),
			Skills:   []string{gofakeit.HackerAdjective(), gofakeit.HackerNoun()},
			IsPublic: true,
		}
		if err := db.Create(&profile).Error; err != nil {
			return nil, err
		}
	}

	return users, nil
}

func createCategories(db *gorm.DB) ([]models.Category, error) {
	categories := make([]models.Category, len(categoryPresets))
	copy(categories, categoryPresets)
	for i := range categories {
		categories[i].Slug = models.Slugify(categories[i].Name)
	}
	if err := db.Create(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func createPosts(db *gorm.DB, users []models.User, categories []models.Category, count int) ([]models.Post, error) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	posts := make([]models.Post, 0, count)

	for i := 0; i < count; i++ {
		author := users[r.Intn(len(users))]
		title := fmt.Sprintf("%s %d", gofakeit.Sentence(6), i)
		content := gofakeit.Paragraph(4, 5, 12, "\n\n")
		category := categories[r.Intn(len(categories))]

		post := models.Post{
			Title:      title,
			Slug:       models.Slugify(title),
			Content:    content,
			Excerpt:    gofakeit.Sentence(15),
			UserID:     author.ID,
			CategoryID: &category.ID,
			Tags:       []string{gofakeit.HackerNoun(), gofakeit.HackerNoun()},
			Published:  r.Intn(10) > 1, // roughly one draft in five
			Views:      r.Intn(500),
			CreatedAt:  time.Now().Add(-time.Duration(r.Intn(90*24)) * time.Hour),
		}
		posts = append(posts, post)
	}

	if err := db.Create(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func createComments(db *gorm.DB, users []models.User, posts []models.Post) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, post := range posts {
		if !post.Published {
			continue
		}
		numComments := r.Intn(6)
		for i := 0; i < numComments; i++ {
			comment := models.Comment{
				Content:    gofakeit.Sentence(10),
				UserID:     users[r.Intn(len(users))].ID,
				PostID:     post.ID,
				IsApproved: true,
			}
			if err := db.Create(&comment).Error; err != nil {
				return err
			}

			// Some top-level comments get a reply thread.
			if r.Intn(3) == 0 {
				reply := models.Comment{
					Content:    gofakeit.Sentence(8),
					UserID:     users[r.Intn(len(users))].ID,
					PostID:     post.ID,
					ParentID:   &comment.ID,
					IsApproved: true,
				}
				if err := db.Create(&reply).Error; err != nil {
					return err
				}
				if err := db.Model(&comment).Update("replies_count", 1).Error; err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func createLikes(db *gorm.DB, users []models.User, posts []models.Post) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, post := range posts {
		if !post.Published {
			continue
		}
		for _, user := range users {
			if r.Intn(4) == 0 {
				like := models.PostLike{PostID: post.ID, UserID: user.ID}
				if err := db.Create(&like).Error; err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func createSubscribers(db *gorm.DB, users []models.User) error {
	subscribers := make([]models.Subscriber, 0, len(users))
	for _, user := range users {
		subscribers = append(subscribers, models.Subscriber{Email: user.Email})
	}
	return db.Create(&subscribers).Error
}
