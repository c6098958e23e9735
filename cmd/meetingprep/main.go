package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	calendarv3 "google.golang.org/api/calendar/v3"
	gmailv1 "google.golang.org/api/gmail/v1"

	"github.com/TornikeK2/Meeting-prep-assistant/internal/ai"
	"github.com/TornikeK2/Meeting-prep-assistant/internal/brief"
	"github.com/TornikeK2/Meeting-prep-assistant/internal/calendar"
	"github.com/TornikeK2/Meeting-prep-assistant/internal/config"
	"github.com/TornikeK2/Meeting-prep-assistant/internal/gmail"
	"github.com/TornikeK2/Meeting-prep-assistant/internal/googleauth"
	"github.com/TornikeK2/Meeting-prep-assistant/internal/keyword"
	"github.com/TornikeK2/Meeting-prep-assistant/internal/logger"
	"github.com/TornikeK2/Meeting-prep-assistant/internal/model"
	"github.com/TornikeK2/Meeting-prep-assistant/internal/relevance"
	"github.com/TornikeK2/Meeting-prep-assistant/internal/store"
	"github.com/TornikeK2/Meeting-prep-assistant/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("determine home directory: %w", err)
	}
	defaultConfigDir := filepath.Join(home, ".config", "meetingprep")

	var (
		configPath = flag.String("config", filepath.Join(defaultConfigDir, "config.yaml"), "path to YAML config")
		days       = flag.Int("days", 0, "how many days back to search email (0 = config default)")
		maxResults = flag.Int("max", 0, "max relevant emails per meeting (0 = config default)")
		customer   = flag.String("customer", "", "customer name to focus the search on")
		domain     = flag.String("domain", "", "customer email domain to focus the search on")
		keywords   = flag.String("keywords", "", "comma-separated project keywords to focus the search on")
		hoursMin   = flag.Int("hours-min", -1, "calendar window start, hours ahead (-1 = config default)")
		hoursMax   = flag.Int("hours-max", -1, "calendar window end, hours ahead (-1 = config default)")
		sendTo     = flag.String("send", "", "email address to send the combined brief to")
		useTUI     = flag.Bool("tui", false, "browse stored briefs interactively instead of generating")
		clientOnly = flag.Bool("client-only", false, "prepare only meetings with external attendees")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *days > 0 {
		cfg.Search.Days = *days
	}
	if *maxResults > 0 {
		cfg.Search.MaxResults = *maxResults
	}
	if *hoursMin >= 0 {
		cfg.Search.HoursAheadMin = *hoursMin
	}
	if *hoursMax >= 0 {
		cfg.Search.HoursAheadMax = *hoursMax
	}

	log := logger.New("meetingprep")

	db, err := store.NewSQLiteStore(filepath.Join(defaultConfigDir, "meetingprep.db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if *useTUI {
		appModel := tui.NewAppModel(db)
		p := tea.NewProgram(&appModel, tea.WithAltScreen())
		finalModel, err := p.Run()
		if err != nil {
			return err
		}
		if m, ok := finalModel.(*tui.AppModel); ok && m.Err != nil {
			return m.Err
		}
		return nil
	}

	ctx := context.Background()

	scopes := []string{gmailv1.GmailReadonlyScope, calendarv3.CalendarReadonlyScope}
	if *sendTo != "" {
		scopes = append(scopes, gmailv1.GmailSendScope)
	}
	httpClient, err := googleauth.Client(ctx, defaultConfigDir, scopes...)
	if err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}

	classifier := calendar.NewClassifier(cfg.InternalDomains, cfg.Keywords.SkipMeetings)
	calClient, err := calendar.NewClient(ctx, httpClient, classifier, logger.New("calendar"))
	if err != nil {
		return err
	}
	mailClient, err := gmail.NewClient(ctx, httpClient, logger.New("gmail"))
	if err != nil {
		return err
	}

	extractor := keyword.NewExtractor(cfg.Keywords.StopWords, cfg.Keywords.SearchNoise)
	noise := relevance.NewNoiseFilter(
		cfg.Notifications.Senders,
		cfg.Notifications.SubjectPhrases,
		cfg.Notifications.ContentPhrases,
		cfg.Notifications.CalendarLinks,
	)
	scorer := relevance.NewScorer(extractor, nil)

	var aiClassifier relevance.Classifier
	var summarizer brief.Summarizer
	if cfg.AI.Enabled() {
		aiClient := ai.NewClient(cfg.AI)
		aiClassifier = aiClient
		summarizer = aiClient
		log.Info("ai collaborator enabled", "provider", cfg.AI.Provider, "model", cfg.AI.Model)
	}

	pipeline := relevance.NewPipeline(mailClient, gmail.NewQueryBuilder(extractor), noise, scorer, aiClassifier, logger.New("relevance"))
	generator := brief.NewGenerator(summarizer, log, nil)

	now := time.Now()
	var meetings []model.Meeting
	if *clientOnly {
		meetings, err = calClient.ClientMeetings(ctx, now, cfg.Search.HoursAheadMin, cfg.Search.HoursAheadMax)
	} else {
		meetings, err = calClient.UpcomingMeetings(ctx, now, cfg.Search.HoursAheadMin, cfg.Search.HoursAheadMax)
	}
	if err != nil {
		return fmt.Errorf("fetch meetings: %w", err)
	}
	if len(meetings) == 0 {
		fmt.Printf("No meetings need preparation in the next %d-%d hours.\n",
			cfg.Search.HoursAheadMin, cfg.Search.HoursAheadMax)
		return nil
	}
	log.Info("meetings to prepare", "count", len(meetings))

	projectKeywords := splitKeywords(*keywords)

	var briefs []model.Brief
	for _, meeting := range meetings {
		criteria := model.SearchCriteria{
			Meeting:         meeting,
			Days:            cfg.Search.Days,
			MaxResults:      cfg.Search.MaxResults,
			ProjectKeywords: projectKeywords,
			CustomerName:    *customer,
			CustomerDomain:  *domain,
		}
		emails := pipeline.Rank(ctx, criteria)

		b := generator.Generate(ctx, meeting, emails)
		if err := db.SaveBrief(ctx, b); err != nil {
			log.Warn("failed to persist brief", "meeting", meeting.Title, "err", err)
		}
		briefs = append(briefs, b)

		fmt.Println(brief.Render(b))
		fmt.Println()
	}

	if *sendTo != "" {
		if err := sendDigest(ctx, mailClient, *sendTo, briefs); err != nil {
			return fmt.Errorf("send digest: %w", err)
		}
		fmt.Printf("Digest sent to %s\n", *sendTo)
	}

	return nil
}

// sendDigest emails all generated briefs as one message.
func sendDigest(ctx context.Context, mail *gmail.Client, to string, briefs []model.Brief) error {
	var sb strings.Builder
	for i, b := range briefs {
		if i > 0 {
			sb.WriteString("\n\n" + strings.Repeat("=", 60) + "\n\n")
		}
		fmt.Fprintf(&sb, "%s (%s, %s)\n\n%s",
			b.MeetingTitle, b.StartTime.Format("Mon Jan 2, 15:04"), b.Priority, b.Summary)
	}
	subject := fmt.Sprintf("Meeting prep: %d meeting(s) on %s", len(briefs), time.Now().Format("Jan 2"))
	_, err := mail.Send(ctx, to, subject, sb.String(), false)
	return err
}

func splitKeywords(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
