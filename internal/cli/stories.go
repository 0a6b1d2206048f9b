package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/orgball2608/vibestream/internal/domain"
	"github.com/orgball2608/vibestream/internal/story"
	"github.com/orgball2608/vibestream/internal/story/storytui"
	"github.com/orgball2608/vibestream/pkg/config"
	"github.com/spf13/cobra"
)

var (
	storiesFile  string
	storiesAPI   string
	storiesStart int
)

var storiesCmd = &cobra.Command{
	Use:   "stories",
	Short: "Watch a story sequence in the terminal",
	Long: `Plays stories full-screen with timed auto-advance.
Stories come from a YAML file (--file) or from a running daemon (--api).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return err
		}

		var items []domain.StoryItem
		switch {
		case storiesFile != "":
			items, err = storytui.LoadFile(storiesFile)
		case storiesAPI != "":
			items, err = fetchStories(cmd.Context(), storiesAPI)
		default:
			return errors.New("either --file or --api is required")
		}
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("No stories to show.")
			return nil
		}

		return storytui.Run(items, storytui.Options{
			Timing:       story.TimingFromConfig(cfg),
			InitialIndex: storiesStart,
		})
	},
}

func init() {
	storiesCmd.Flags().StringVarP(&storiesFile, "file", "f", "", "YAML file with the story sequence")
	storiesCmd.Flags().StringVar(&storiesAPI, "api", "", "base URL of a running daemon, e.g. http://localhost:8080")
	storiesCmd.Flags().IntVar(&storiesStart, "start", 0, "index of the first story to show")
}

// fetchStories reads the carousel from the daemon and flattens it in author order.
func fetchStories(ctx context.Context, baseURL string) ([]domain.StoryItem, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(baseURL, "/")+"/v1/stories", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stories: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch stories: %s", resp.Status)
	}

	var groups []domain.StoryGroup
	if err := json.NewDecoder(resp.Body).Decode(&groups); err != nil {
		return nil, fmt.Errorf("failed to decode stories: %w", err)
	}

	var items []domain.StoryItem
	for _, g := range groups {
		items = append(items, g.Items...)
	}
	return items, nil
}
