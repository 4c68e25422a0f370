package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/cliptube/backend/internal/logger"
	"github.com/cliptube/backend/internal/models"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	_ = gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db}
}

// imageURL fabricates a CDN-shaped placeholder URL for avatars, covers and
// thumbnails so seeded rows look like real uploads.
func imageURL(width, height int) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s/%d/%d", gofakeit.LetterN(8), width, height)
}

// SeedDev seeds the development database with realistic data.
func (s *Seeder) SeedDev() error {
	logger.Log.Info("Creating users...")
	users, err := s.seedUsers(50)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	logger.Log.Info("Creating videos...")
	videos, err := s.seedVideos(users, 200)
	if err != nil {
		return fmt.Errorf("failed to seed videos: %w", err)
	}

	logger.Log.Info("Creating tweets...")
	if err := s.seedTweets(users, 150); err != nil {
		return fmt.Errorf("failed to seed tweets: %w", err)
	}

	logger.Log.Info("Creating blogs...")
	if err := s.seedBlogs(users, 40); err != nil {
		return fmt.Errorf("failed to seed blogs: %w", err)
	}

	logger.Log.Info("Creating comments...")
	if err := s.seedComments(users, videos, 500); err != nil {
		return fmt.Errorf("failed to seed comments: %w", err)
	}

	logger.Log.Info("Creating reactions and subscriptions...")
	if err := s.seedReactions(users, videos, 800); err != nil {
		return fmt.Errorf("failed to seed reactions: %w", err)
	}

	logger.Log.Info("Creating playlists...")
	if err := s.seedPlaylists(users, videos, 30); err != nil {
		return fmt.Errorf("failed to seed playlists: %w", err)
	}

	logger.Log.Info("Creating watch history...")
	if err := s.seedWatchHistory(users, videos, 1000); err != nil {
		return fmt.Errorf("failed to seed watch history: %w", err)
	}

	logger.Log.Info("Seeding complete")
	return nil
}

// SeedTest seeds a minimal deterministic dataset for integration testing.
func (s *Seeder) SeedTest() error {
	users, err := s.seedUsers(3)
	if err != nil {
		return err
	}
	videos, err := s.seedVideos(users, 5)
	if err != nil {
		return err
	}
	return s.seedComments(users, videos, 10)
}

// Clean removes all seeded data. Order respects foreign keys.
func (s *Seeder) Clean() error {
	tables := []interface{}{
		&models.WatchHistory{},
		&models.PlaylistVideo{},
		&models.Playlist{},
		&models.Reaction{},
		&models.Comment{},
		&models.Blog{},
		&models.Tweet{},
		&models.Video{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Where("1 = 1").Delete(table).Error; err != nil {
			return fmt.Errorf("failed to clean table: %w", err)
		}
	}
	return nil
}

func (s *Seeder) seedUsers(count int) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		user := models.User{
			Username:     fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:        fmt.Sprintf("user%d_%s", i, gofakeit.Email()),
			Fullname:     gofakeit.Name(),
			Avatar:       imageURL(200, 200),
			CoverImage:   imageURL(1280, 320),
			PasswordHash: string(hash),
		}
		if err := s.db.Create(&user).Error; err != nil {
			logger.Log.Warn("skipping user", zap.Error(err))
			continue
		}
		users = append(users, user)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("no users created")
	}
	return users, nil
}

func (s *Seeder) seedVideos(users []models.User, count int) ([]models.Video, error) {
	videos := make([]models.Video, 0, count)
	for i := 0; i < count; i++ {
		owner := users[rand.Intn(len(users))]
		video := models.Video{
			Title:       gofakeit.Sentence(4),
			Description: gofakeit.Paragraph(1, 3, 12, " "),
			VideoFile:   gofakeit.URL() + "/video.mp4",
			Thumbnail:   imageURL(640, 360),
			Duration:    float64(gofakeit.Number(15, 3600)),
			ViewCount:   int64(gofakeit.Number(0, 100000)),
			IsPublished: gofakeit.Number(0, 9) > 0,
			OwnerID:     owner.ID,
		}
		if err := s.db.Create(&video).Error; err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}
	return videos, nil
}

func (s *Seeder) seedTweets(users []models.User, count int) error {
	for i := 0; i < count; i++ {
		tweet := models.Tweet{
			Content: gofakeit.Sentence(gofakeit.Number(5, 25)),
			OwnerID: users[rand.Intn(len(users))].ID,
		}
		if err := s.db.Create(&tweet).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedBlogs(users []models.User, count int) error {
	for i := 0; i < count; i++ {
		blog := models.Blog{
			Title:       gofakeit.Sentence(6),
			Content:     gofakeit.Paragraph(3, 6, 20, "\n\n"),
			Thumbnail:   imageURL(800, 400),
			CreatedByID: users[rand.Intn(len(users))].ID,
		}
		if err := s.db.Create(&blog).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedComments(users []models.User, videos []models.Video, count int) error {
	for i := 0; i < count; i++ {
		comment := models.Comment{
			Content: gofakeit.Sentence(gofakeit.Number(3, 20)),
			VideoID: videos[rand.Intn(len(videos))].ID,
			OwnerID: users[rand.Intn(len(users))].ID,
		}
		if err := s.db.Create(&comment).Error; err != nil {
			return err
		}
	}
	return nil
}

// seedReactions creates likes and subscriptions. Duplicate tuples are
// expected under random pairing and skipped via the unique index.
func (s *Seeder) seedReactions(users []models.User, videos []models.Video, count int) error {
	kinds := []models.TargetKind{models.TargetVideo, models.TargetVideo, models.TargetChannel}
	for i := 0; i < count; i++ {
		actor := users[rand.Intn(len(users))]
		kind := kinds[rand.Intn(len(kinds))]

		var targetID string
		if kind == models.TargetChannel {
			targetID = users[rand.Intn(len(users))].ID
			if targetID == actor.ID {
				continue
			}
		} else {
			targetID = videos[rand.Intn(len(videos))].ID
		}

		reaction := models.Reaction{
			ActorID:    actor.ID,
			TargetKind: kind,
			TargetID:   targetID,
		}
		if err := s.db.Create(&reaction).Error; err != nil {
			continue // duplicate tuple
		}
	}
	return nil
}

func (s *Seeder) seedPlaylists(users []models.User, videos []models.Video, count int) error {
	for i := 0; i < count; i++ {
		playlist := models.Playlist{
			Name:        gofakeit.HipsterSentence(),
			Description: gofakeit.Sentence(8),
			OwnerID:     users[rand.Intn(len(users))].ID,
		}
		if err := s.db.Create(&playlist).Error; err != nil {
			return err
		}

		for j := 0; j < gofakeit.Number(1, 8); j++ {
			member := models.PlaylistVideo{
				PlaylistID: playlist.ID,
				VideoID:    videos[rand.Intn(len(videos))].ID,
			}
			if err := s.db.Create(&member).Error; err != nil {
				continue // already in playlist
			}
		}
	}
	return nil
}

func (s *Seeder) seedWatchHistory(users []models.User, videos []models.Video, count int) error {
	for i := 0; i < count; i++ {
		row := models.WatchHistory{
			UserID:    users[rand.Intn(len(users))].ID,
			VideoID:   videos[rand.Intn(len(videos))].ID,
			WatchedAt: gofakeit.DateRange(time.Now().AddDate(0, -3, 0), time.Now()),
		}
		if err := s.db.Create(&row).Error; err != nil {
			continue // rewatch of the same pair
		}
	}
	return nil
}
