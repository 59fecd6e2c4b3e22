package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/birostris/PadelRanking/pkg/logger"
)

// httpClient wraps http.Client with a request timeout.
type httpClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *httpClient {
	return &httpClient{client: &http.Client{Timeout: timeout}}
}

// get performs a GET request and returns the body.
func (c *httpClient) get(ctx context.Context, url string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("performing GET %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("reading response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// post performs a POST request with a JSON body and returns the status.
func (c *httpClient) post(ctx context.Context, url string, payload any) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("marshaling request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("performing POST %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("reading response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// createPlayers registers the roster sequentially; player creation is cheap
// and ordering keeps ids predictable for eyeballing the result.
func createPlayers(ctx context.Context, config *Config, client *httpClient, nicks []string, stats *Stats) error {
	url := config.BaseURL + "/data/add_player"
	for i, nick := range nicks {
		payload := map[string]string{
			"firstname": fmt.Sprintf("Sim%d", i+1),
			"lastname":  "Player",
			"nick":      nick,
		}
		status, body, err := client.post(ctx, url, payload)
		if err != nil {
			return err
		}
		if status != http.StatusCreated {
			return fmt.Errorf("creating player %q: status %d: %s", nick, status, body)
		}
		stats.PlayersCreated++
	}
	return nil
}

// submitGames posts match results concurrently with a worker pool.
func submitGames(ctx context.Context, config *Config, client *httpClient, games []game, stats *Stats) error {
	url := config.BaseURL + "/data/add_game"

	var accepted, failed, submitted int64

	gameChan := make(chan game, config.Workers*2)
	var wg sync.WaitGroup
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for g := range gameChan {
				select {
				case <-ctx.Done():
					return
				default:
				}
				status, _, err := client.post(ctx, url, g)
				atomic.AddInt64(&submitted, 1)
				if err == nil && status == http.StatusCreated {
					atomic.AddInt64(&accepted, 1)
				} else {
					atomic.AddInt64(&failed, 1)
				}
			}
		}()
	}

	go func() {
		defer close(gameChan)
		for _, g := range games {
			select {
			case <-ctx.Done():
				return
			case gameChan <- g:
			}
		}
	}()
	wg.Wait()

	stats.GamesSubmitted = int(atomic.LoadInt64(&submitted))
	stats.GamesAccepted = int(atomic.LoadInt64(&accepted))
	stats.GamesFailed = int(atomic.LoadInt64(&failed))

	logger.Get().Info(ctx, "game submission completed",
		logger.Int("accepted", stats.GamesAccepted),
		logger.Int("failed", stats.GamesFailed),
	)
	if stats.GamesAccepted == 0 && len(games) > 0 {
		return fmt.Errorf("no games were accepted")
	}
	return nil
}

// fetchRankings retrieves and decodes the leaderboard.
func fetchRankings(ctx context.Context, config *Config, client *httpClient, filter string) ([]rankingRow, error) {
	url := config.BaseURL + "/data/rankings"
	if filter != "" {
		url += "?filter=" + filter
	}
	status, body, err := client.get(ctx, url)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("fetching rankings: status %d: %s", status, body)
	}
	var rows []rankingRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decoding rankings: %w", err)
	}
	return rows, nil
}
