package comfy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"upo-server/internal/domain"
	"upo-server/internal/enhance"
)

const (
	submitTimeout   = 30 * time.Second
	defaultPollWait = 2 * time.Minute
	filenamePrefix  = "UPO"
)

// Node is one entry of a ComfyUI workflow graph in the /prompt API shape.
type Node struct {
	Inputs    map[string]any `json:"inputs"`
	ClassType string         `json:"class_type"`
}

// Client submits workflow graphs to a ComfyUI host and polls for results.
// The poll loop is throttled with a rate limiter so a slow generation does
// not hammer the host.
type Client struct {
	http     *http.Client
	limiter  *rate.Limiter
	pollWait time.Duration
}

func NewClient() *Client {
	return &Client{
		http:     &http.Client{Timeout: submitTimeout},
		limiter:  rate.NewLimiter(rate.Every(2*time.Second), 1),
		pollWait: defaultPollWait,
	}
}

// NormalizeHost cleans a caller-supplied ComfyUI host into a usable base URL.
func NormalizeHost(host string) string {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		return ""
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host
}

// BuildWorkflow expands the engine's node hints into the stock SDXL
// text-to-image graph ComfyUI expects on /prompt.
func BuildWorkflow(cfg enhance.ComfyConfig) map[string]Node {
	ks := cfg.NodesHint.KSampler
	latent := cfg.NodesHint.Latent
	return map[string]Node{
		"3": {
			ClassType: "KSampler",
			Inputs: map[string]any{
				"seed":         ks.Seed,
				"steps":        ks.Steps,
				"cfg":          ks.CFG,
				"sampler_name": ks.SamplerName,
				"scheduler":    ks.Scheduler,
				"denoise":      1,
				"model":        []any{"4", 0},
				"positive":     []any{"6", 0},
				"negative":     []any{"7", 0},
				"latent_image": []any{"5", 0},
			},
		},
		"4": {
			ClassType: "CheckpointLoaderSimple",
			Inputs:    map[string]any{"ckpt_name": cfg.NodesHint.Checkpoint.CkptName},
		},
		"5": {
			ClassType: "EmptyLatentImage",
			Inputs: map[string]any{
				"width":      latent.Width,
				"height":     latent.Height,
				"batch_size": latent.BatchSize,
			},
		},
		"6": {
			ClassType: "CLIPTextEncode",
			Inputs:    map[string]any{"text": cfg.Positive, "clip": []any{"4", 1}},
		},
		"7": {
			ClassType: "CLIPTextEncode",
			Inputs:    map[string]any{"text": cfg.Negative, "clip": []any{"4", 1}},
		},
		"8": {
			ClassType: "VAEDecode",
			Inputs:    map[string]any{"samples": []any{"3", 0}, "vae": []any{"4", 2}},
		},
		"9": {
			ClassType: "SaveImage",
			Inputs:    map[string]any{"filename_prefix": filenamePrefix, "images": []any{"8", 0}},
		},
	}
}

// Submit posts the workflow and returns the queued prompt id.
func (c *Client) Submit(ctx context.Context, host string, workflow map[string]Node) (string, error) {
	body, err := json.Marshal(map[string]any{"prompt": workflow})
	if err != nil {
		return "", fmt.Errorf("comfy: marshal workflow: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, host+"/prompt", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("comfy: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("comfy: submit: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("comfy: submit: unexpected status %d", res.StatusCode)
	}

	var payload struct {
		PromptID string `json:"prompt_id"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("comfy: decode submit response: %w", err)
	}
	if payload.PromptID == "" {
		return "", fmt.Errorf("comfy: %w: no prompt_id returned", domain.ErrGenerationFailure)
	}
	return payload.PromptID, nil
}

type historyEntry struct {
	Outputs map[string]struct {
		Images []struct {
			Filename  string `json:"filename"`
			Subfolder string `json:"subfolder"`
		} `json:"images"`
	} `json:"outputs"`
}

// Generate submits the workflow, waits for the generation to finish, and
// returns view URLs for every produced image.
func (c *Client) Generate(ctx context.Context, host string, workflow map[string]Node) ([]string, error) {
	promptID, err := c.Submit(ctx, host, workflow)
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(c.pollWait)
	for time.Now().Before(deadline) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		entry, ok, err := c.history(ctx, host, promptID)
		if err != nil {
			// transient poll failures are retried until the deadline
			continue
		}
		if ok {
			return viewURLs(host, entry), nil
		}
	}
	return nil, domain.ErrGenerationTimeout
}

func (c *Client) history(ctx context.Context, host, promptID string) (historyEntry, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, host+"/history/"+url.PathEscape(promptID), nil)
	if err != nil {
		return historyEntry{}, false, err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return historyEntry{}, false, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return historyEntry{}, false, fmt.Errorf("comfy: history: unexpected status %d", res.StatusCode)
	}

	history := map[string]historyEntry{}
	if err := json.NewDecoder(res.Body).Decode(&history); err != nil {
		return historyEntry{}, false, err
	}
	entry, ok := history[promptID]
	return entry, ok, nil
}

func viewURLs(host string, entry historyEntry) []string {
	var urls []string
	for _, output := range entry.Outputs {
		for _, img := range output.Images {
			if img.Filename == "" {
				continue
			}
			q := url.Values{"filename": {img.Filename}}
			if img.Subfolder != "" {
				q.Set("subfolder", img.Subfolder)
			}
			urls = append(urls, host+"/view?"+q.Encode())
		}
	}
	return urls
}
