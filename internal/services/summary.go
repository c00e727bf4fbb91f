package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ollama/ollama/api"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"github.com/sm2control/backend/internal/config"
	"github.com/sm2control/backend/internal/models"
	"github.com/sm2control/backend/pkg/logger"
)

// summaryFallback is returned whenever the provider call fails; the
// dashboard must render either way.
const summaryFallback = "ไม่สามารถวิเคราะห์ข้อมูลได้ในขณะนี้"

// SummaryService produces a short narrative reading of the dashboard
// figures through the configured AI provider.
type SummaryService struct {
	cfg *config.AIConfig
}

func NewSummaryService(cfg *config.AIConfig) *SummaryService {
	return &SummaryService{cfg: cfg}
}

// Summarize turns the dashboard into a Thai-language status paragraph.
// Provider failures degrade to a fixed fallback string, never an error.
func (s *SummaryService) Summarize(ctx context.Context, d *Dashboard) string {
	prompt := buildPrompt(d)

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	text, err := s.generate(ctx, prompt)
	if err != nil {
		logger.Warn().Err(err).Str("provider", s.cfg.Provider).Msg("ai summary failed, using fallback")
		return summaryFallback
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return summaryFallback
	}
	return text
}

// SummarizeProject narrates one project's position and recent cut history.
func (s *SummaryService) SummarizeProject(ctx context.Context, p *ProjectStats, records []models.CutRecord) string {
	prompt := buildProjectPrompt(p, records)

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	text, err := s.generate(ctx, prompt)
	if err != nil {
		logger.Warn().Err(err).Str("provider", s.cfg.Provider).Str("wbs", p.WBS).Msg("ai summary failed, using fallback")
		return summaryFallback
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return summaryFallback
	}
	return text
}

func buildProjectPrompt(p *ProjectStats, records []models.CutRecord) string {
	var b strings.Builder
	b.WriteString("คุณเป็นผู้ช่วยวิเคราะห์งบประมาณโครงการก่อสร้าง สรุปสถานะโครงการนี้เป็นภาษาไทยสั้นๆ ไม่เกิน 4 ประโยค ชี้ความเสี่ยงถ้ามี:\n")
	fmt.Fprintf(&b, "โครงการ: %s (%s) ผู้รับผิดชอบ: %s\n", p.Name, p.WBS, p.Project.Worker)
	fmt.Fprintf(&b, "งบเต็ม: %s บาท เพดานเบิก (%.0f%%): %s บาท\n",
		p.Totals.TotalFull.StringFixed(2), p.MaxBudgetPercent, p.Totals.GlobalLimit.StringFixed(2))
	fmt.Fprintf(&b, "เบิกไปแล้ว: %s บาท (%.1f%% ของเพดาน) คงเหลือ: %s บาท\n",
		p.Totals.TotalSpent.StringFixed(2), p.PercentUsed, p.Totals.RemainingGlobalLimit.StringFixed(2))
	if len(records) > 20 {
		records = records[:20]
	}
	for i := range records {
		r := &records[i]
		fmt.Fprintf(&b, "- %s %s/%s %s บาท %s\n",
			r.Timestamp.Format("2006-01-02"), r.NetworkCode, r.Category(), r.Total().StringFixed(2), r.Detail)
	}
	return b.String()
}

func buildPrompt(d *Dashboard) string {
	var b strings.Builder
	b.WriteString("คุณเป็นผู้ช่วยวิเคราะห์งบประมาณโครงการก่อสร้าง สรุปสถานะต่อไปนี้เป็นภาษาไทยสั้นๆ ไม่เกิน 4 ประโยค ชี้ความเสี่ยงถ้ามี:\n")
	fmt.Fprintf(&b, "จำนวนโครงการ: %d\n", d.ProjectCount)
	fmt.Fprintf(&b, "งบเต็มรวม: %s บาท\n", d.TotalFull.StringFixed(2))
	fmt.Fprintf(&b, "เพดานเบิกรวม: %s บาท\n", d.GlobalLimit.StringFixed(2))
	fmt.Fprintf(&b, "เบิกไปแล้ว: %s บาท\n", d.TotalSpent.StringFixed(2))
	fmt.Fprintf(&b, "คงเหลือใต้เพดาน: %s บาท\n", d.RemainingLimit.StringFixed(2))
	fmt.Fprintf(&b, "เบิกเดือนนี้: %s บาท\n", d.SpentThisMonth.StringFixed(2))
	for i := range d.Projects {
		p := &d.Projects[i]
		fmt.Fprintf(&b, "- %s (%s): ใช้ไป %.1f%% ของเพดาน\n", p.Name, p.WBS, p.PercentUsed)
	}
	return b.String()
}

func (s *SummaryService) generate(ctx context.Context, prompt string) (string, error) {
	switch s.cfg.Provider {
	case "openai":
		return s.generateOpenAI(ctx, prompt)
	case "anthropic":
		return s.generateAnthropic(ctx, prompt)
	case "gemini":
		return s.generateGemini(ctx, prompt)
	case "ollama":
		return s.generateOllama(ctx, prompt)
	}
	return "", fmt.Errorf("unknown ai provider: %q", s.cfg.Provider)
}

func (s *SummaryService) generateOpenAI(ctx context.Context, prompt string) (string, error) {
	clientCfg := openai.DefaultConfig(s.cfg.APIKey)
	if s.cfg.BaseURL != "" {
		clientCfg.BaseURL = s.cfg.BaseURL
	}
	client := openai.NewClientWithConfig(clientCfg)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}

func (s *SummaryService) generateAnthropic(ctx context.Context, prompt string) (string, error) {
	opts := []option.RequestOption{option.WithAPIKey(s.cfg.APIKey)}
	if s.cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(s.cfg.BaseURL))
	}
	client := anthropic.NewClient(opts...)

	msg, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.cfg.Model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String(), nil
}

func (s *SummaryService) generateGemini(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  s.cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", err
	}
	resp, err := client.Models.GenerateContent(ctx, s.cfg.Model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

func (s *SummaryService) generateOllama(ctx context.Context, prompt string) (string, error) {
	baseURL := s.cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	client := api.NewClient(u, http.DefaultClient)

	var b strings.Builder
	stream := false
	err = client.Generate(ctx, &api.GenerateRequest{
		Model:  s.cfg.Model,
		Prompt: prompt,
		Stream: &stream,
	}, func(resp api.GenerateResponse) error {
		b.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
