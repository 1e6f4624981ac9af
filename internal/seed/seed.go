package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"ideahub/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the dev seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seeder generates development data sets.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a Seeder bound to the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db}
}

// devPassword is the shared password of every generated test account.
const devPassword = "password123!Dev"

var roles = []models.UserRole{
	models.RoleCreator, models.RoleCreator, models.RoleCreator,
	models.RoleProfessional, models.RoleInvestor,
}

var languages = []string{"en", "en", "en", "de", "fr", "es"}

var projectTitles = []string{
	"Community solar dashboard", "Open hardware weather station",
	"Neighborhood tool library", "Accessible recipe platform",
	"Bike route planner", "Local makerspace hub",
	"Language exchange matcher", "Urban garden tracker",
}

// ClearAll removes generated data, keeping system categories and authorities.
func (s *Seeder) ClearAll() error {
	log.Println("🧹 Clearing existing data...")
	tables := []string{
		"survey_responses", "inquiry_applications", "roadmap_steps",
		"attachments", "post_categories", "project_participants",
		"posts", "threads", "user_interests", "user_authorities",
		"social_profiles", "users",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear table %s: %w", table, err)
		}
	}
	return nil
}

// SeedUsers creates n users with profiles and random interests.
func (s *Seeder) SeedUsers(n int) ([]models.User, error) {
	log.Printf("👤 Creating %d users...", n)

	hash, err := bcrypt.GenerateFromPassword([]byte(devPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	var categories []models.Category
	if err := s.db.Find(&categories).Error; err != nil {
		return nil, err
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		first := gofakeit.FirstName()
		last := gofakeit.LastName()
		username := strings.ToLower(fmt.Sprintf("%s_%s%d", first, last, gofakeit.Number(10, 999)))

		user := models.User{
			Email:             fmt.Sprintf("%s.%d@example.com", strings.ToLower(first), i),
			PasswordHash:      string(hash),
			PreferredLanguage: languages[rand.Intn(len(languages))],
			Role:              roles[rand.Intn(len(roles))],
			Status:            models.UserStatusActive,
			Interests:         pickCategories(categories, rand.Intn(4)),
			Profile: &models.SocialProfile{
				Username:  username,
				FirstName: first,
				LastName:  last,
				Bio:       gofakeit.Sentence(10),
			},
		}
		user.Profile.RefreshAvatarURL()

		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("create user %s: %w", user.Email, err)
		}
		users = append(users, user)
	}

	return users, nil
}

// SeedPosts creates n posts of mixed types authored by the given users.
func (s *Seeder) SeedPosts(users []models.User, n int) ([]models.Post, error) {
	log.Printf("📝 Creating %d posts...", n)

	var categories []models.Category
	if err := s.db.Find(&categories).Error; err != nil {
		return nil, err
	}

	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[rand.Intn(len(users))]
		post := s.randomPost(author, categories)

		if err := s.db.Create(post).Error; err != nil {
			return nil, fmt.Errorf("create post %q: %w", post.Title, err)
		}
		posts = append(posts, *post)
	}

	return posts, nil
}

func (s *Seeder) randomPost(author models.User, categories []models.Category) *models.Post {
	post := &models.Post{
		Title:           gofakeit.Sentence(5),
		Description:     gofakeit.Paragraph(1, 3, 8, "\n"),
		Language:        author.PreferredLanguage,
		AuthorProfileID: author.Profile.ID,
		Visibility:      models.VisibilityActive,
		Categories:      pickCategories(categories, 1+rand.Intn(2)),
	}

	switch rand.Intn(5) {
	case 0:
		post.Type = models.PostTypeProject
		post.Title = projectTitles[rand.Intn(len(projectTitles))]
		steps := 2 + rand.Intn(4)
		for j := 0; j < steps; j++ {
			post.RoadmapSteps = append(post.RoadmapSteps, models.RoadmapStep{
				Title:      gofakeit.Sentence(4),
				OrderIndex: j,
				Status:     models.StepTodo,
			})
		}
	case 1:
		post.Type = models.PostTypeSurveyOpen
	case 2:
		post.Type = models.PostTypeSurveyChoice
		post.AllowMultipleAnswers = rand.Intn(2) == 0
		count := 2 + rand.Intn(3)
		for j := 0; j < count; j++ {
			post.Options = append(post.Options, fmt.Sprintf("Option %c", 'A'+j))
		}
	case 3:
		post.Type = models.PostTypeFundraiser
		post.TargetAmount = float64(gofakeit.Number(500, 50000))
		post.RaisedAmount = post.TargetAmount * rand.Float64()
	default:
		post.Type = models.PostTypeInquiry
		post.ProfessionalRole = gofakeit.JobTitle()
		post.Location = gofakeit.City()
	}

	return post
}

// SeedEngagement adds survey responses and inquiry applications from random
// users, skipping the author and honoring the one-per-participant rule.
func (s *Seeder) SeedEngagement(users []models.User, posts []models.Post) error {
	log.Println("💬 Creating responses and applications...")

	for i := range posts {
		post := &posts[i]
		responders := pickUsers(users, rand.Intn(len(users)/2+1))

		for _, responder := range responders {
			if responder.Profile.ID == post.AuthorProfileID {
				continue
			}
			switch {
			case post.Type == models.PostTypeSurveyOpen:
				response := models.SurveyResponse{
					PostID:      post.ID,
					ResponderID: responder.Profile.ID,
					Text:        gofakeit.Sentence(12),
				}
				if err := s.db.Create(&response).Error; err != nil {
					return err
				}
			case post.Type == models.PostTypeSurveyChoice && len(post.Options) > 0:
				response := models.SurveyResponse{
					PostID:          post.ID,
					ResponderID:     responder.Profile.ID,
					SelectedOptions: []string{post.Options[rand.Intn(len(post.Options))]},
				}
				if err := s.db.Create(&response).Error; err != nil {
					return err
				}
			case post.Type == models.PostTypeInquiry:
				application := models.InquiryApplication{
					PostID:             post.ID,
					ApplicantProfileID: responder.Profile.ID,
					Message:            gofakeit.Sentence(15),
				}
				if err := s.db.Create(&application).Error; err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// SeedThreads groups some of the generated posts into threads per author.
func (s *Seeder) SeedThreads(users []models.User, posts []models.Post) error {
	log.Println("🧵 Creating threads...")

	byAuthor := make(map[uint][]*models.Post)
	for i := range posts {
		p := &posts[i]
		byAuthor[p.AuthorProfileID] = append(byAuthor[p.AuthorProfileID], p)
	}

	for _, user := range users {
		members := byAuthor[user.Profile.ID]
		if len(members) < 3 || rand.Intn(2) == 0 {
			continue
		}

		thread := models.Thread{
			Title:           gofakeit.Sentence(4),
			Description:     gofakeit.Sentence(10),
			AuthorProfileID: user.Profile.ID,
		}
		if err := s.db.Create(&thread).Error; err != nil {
			return err
		}

		projectTaken := false
		for _, member := range members {
			if member.Type == models.PostTypeProject {
				if projectTaken {
					continue
				}
				projectTaken = true
			}
			err := s.db.Model(&models.Post{}).
				Where("id = ?", member.ID).
				Updates(map[string]interface{}{"thread_id": thread.ID, "pinned": false}).Error
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// Run executes the full dev seeding pass.
func (s *Seeder) Run(opts Options) error {
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	if err := Bootstrap(s.db, "", ""); err != nil {
		return err
	}

	users, err := s.SeedUsers(opts.NumUsers)
	if err != nil {
		return err
	}
	posts, err := s.SeedPosts(users, opts.NumPosts)
	if err != nil {
		return err
	}
	if err := s.SeedEngagement(users, posts); err != nil {
		return err
	}
	return s.SeedThreads(users, posts)
}

func pickCategories(categories []models.Category, n int) []models.Category {
	if n == 0 || len(categories) == 0 {
		return nil
	}
	perm := rand.Perm(len(categories))
	if n > len(categories) {
		n = len(categories)
	}
	out := make([]models.Category, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, categories[idx])
	}
	return out
}

func pickUsers(users []models.User, n int) []models.User {
	if n == 0 || len(users) == 0 {
		return nil
	}
	perm := rand.Perm(len(users))
	if n > len(users) {
		n = len(users)
	}
	out := make([]models.User, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, users[idx])
	}
	return out
}
