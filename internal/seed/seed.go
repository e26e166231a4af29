// Package seed populates the database with demo data for local development.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ripple/internal/models"
)

// Options controls how much demo data gets generated.
type Options struct {
	NumUsers    int
	NumPosts    int
	NumMessages int
	ShouldClean bool
}

// DefaultOptions returns a sensible data volume for local development.
func DefaultOptions() Options {
	return Options{
		NumUsers:    20,
		NumPosts:    80,
		NumMessages: 120,
		ShouldClean: false,
	}
}

// Run fills the database with fake users, posts, likes, retweets and messages.
func Run(db *gorm.DB, opts Options) error {
	if opts.ShouldClean {
		if err := clean(db); err != nil {
			return fmt.Errorf("cleaning existing data: %w", err)
		}
	}

	users, err := seedUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("seeding users: %w", err)
	}

	posts, err := seedPosts(db, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("seeding posts: %w", err)
	}

	if err := seedLikes(db, users, posts); err != nil {
		return fmt.Errorf("seeding likes: %w", err)
	}

	if err := seedRetweets(db, users, posts); err != nil {
		return fmt.Errorf("seeding retweets: %w", err)
	}

	if err := seedMessages(db, users, opts.NumMessages); err != nil {
		return fmt.Errorf("seeding messages: %w", err)
	}

	log.Printf("Seeded %d users, %d posts, %d messages", len(users), len(posts), opts.NumMessages)
	return nil
}

func clean(db *gorm.DB) error {
	// Child tables first to respect foreign keys.
	for _, table := range []string{"likes", "messages", "posts", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedUsers(db *gorm.DB, n int) ([]models.User, error) {
	// One well-known login for manual testing.
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, n)
	users = append(users, models.User{
		Username:  "demo",
		Email:     "demo@example.com",
		Password:  string(hash),
		FirstName: "Demo",
		LastName:  "User",
	})

	for i := 1; i < n; i++ {
		first := gofakeit.FirstName()
		last := gofakeit.LastName()
		dob := gofakeit.DateRange(
			time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2005, 12, 31, 0, 0, 0, 0, time.UTC),
		)
		users = append(users, models.User{
			Username:    fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:       fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			Password:    string(hash),
			FirstName:   first,
			LastName:    last,
			DateOfBirth: dob,
		})
	}

	if err := db.Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func seedPosts(db *gorm.DB, users []models.User, n int) ([]models.Post, error) {
	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		user := users[rand.Intn(len(users))]
		posts = append(posts, models.Post{
			Content: gofakeit.Sentence(8 + rand.Intn(12)),
			UserID:  user.ID,
		})
	}
	if err := db.Create(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func seedLikes(db *gorm.DB, users []models.User, posts []models.Post) error {
	half := len(users) / 2
	if half == 0 {
		return nil
	}
	for i := range posts {
		numLikes := rand.Intn(half)
		perm := rand.Perm(len(users))
		for _, idx := range perm[:numLikes] {
			like := models.Like{UserID: users[idx].ID, PostID: posts[i].ID}
			if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
				return err
			}
		}
		if err := db.Model(&models.Post{}).
			Where("id = ?", posts[i].ID).
			UpdateColumn("like_count", numLikes).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedRetweets(db *gorm.DB, users []models.User, posts []models.Post) error {
	for i := range posts {
		if rand.Intn(4) != 0 {
			continue
		}
		user := users[rand.Intn(len(users))]
		if user.ID == posts[i].UserID {
			continue
		}
		retweet := models.Post{
			Content:        posts[i].Content,
			UserID:         user.ID,
			OriginalPostID: &posts[i].ID,
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&retweet).Error; err != nil {
			return err
		}
		if err := db.Model(&models.Post{}).
			Where("id = ?", posts[i].ID).
			UpdateColumn("retweet_count", gorm.Expr("retweet_count + 1")).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedMessages(db *gorm.DB, users []models.User, n int) error {
	if len(users) < 2 {
		return nil
	}
	messages := make([]models.Message, 0, n)
	for i := 0; i < n; i++ {
		sender := users[rand.Intn(len(users))]
		recipient := users[rand.Intn(len(users))]
		if sender.ID == recipient.ID {
			continue
		}
		messages = append(messages, models.Message{
			SenderID:    sender.ID,
			RecipientID: recipient.ID,
			Content:     gofakeit.Sentence(4 + rand.Intn(10)),
			IsRead:      rand.Intn(2) == 0,
		})
	}
	if len(messages) == 0 {
		return nil
	}
	return db.Create(&messages).Error
}
