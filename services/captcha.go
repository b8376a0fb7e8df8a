package services

import (
	"context"
	"fmt"
	"log/slog"

	recaptcha "cloud.google.com/go/recaptchaenterprise/v2/apiv1"
	"cloud.google.com/go/recaptchaenterprise/v2/apiv1/recaptchaenterprisepb"
	"google.golang.org/api/option"

	"taskmanager/model"
)

// CaptchaRequest describes one token presented by a browser.
type CaptchaRequest struct {
	Token     string
	Action    string
	UserIP    string
	UserAgent string
}

type Assessment struct {
	Score   float32  `json:"score"`
	Action  string   `json:"action"`
	Reasons []string `json:"reasons,omitempty"`
}

// CaptchaVerifier rejects invalid tokens with an invalid-input error.
type CaptchaVerifier interface {
	Verify(ctx context.Context, req CaptchaRequest) (*Assessment, error)
}

type RecaptchaVerifier struct {
	client    *recaptcha.Client
	projectID string
	siteKey   string
}

func NewRecaptchaVerifier(ctx context.Context, projectID, siteKey, credentialsFile string) (*RecaptchaVerifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := recaptcha.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create reCAPTCHA client: %w", err)
	}
	return &RecaptchaVerifier{client: client, projectID: projectID, siteKey: siteKey}, nil
}

func (v *RecaptchaVerifier) Close() error {
	return v.client.Close()
}

func (v *RecaptchaVerifier) Verify(ctx context.Context, in CaptchaRequest) (*Assessment, error) {
	if in.Token == "" {
		return nil, &model.ValidationError{Field: "captchaToken", Message: "Token is required"}
	}
	req := &recaptchaenterprisepb.CreateAssessmentRequest{
		Parent: fmt.Sprintf("projects/%s", v.projectID),
		Assessment: &recaptchaenterprisepb.Assessment{
			Event: &recaptchaenterprisepb.Event{
				Token:         in.Token,
				SiteKey:       v.siteKey,
				UserIpAddress: in.UserIP,
				UserAgent:     in.UserAgent,
			},
		},
	}
	response, err := v.client.CreateAssessment(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create assessment: %w", err)
	}

	props := response.GetTokenProperties()
	if props == nil || !props.GetValid() {
		slog.WarnContext(ctx, "captcha token rejected", "reason", props.GetInvalidReason().String())
		return nil, model.InvalidInput("reCAPTCHA verification failed")
	}
	if in.Action != "" && props.GetAction() != in.Action {
		slog.WarnContext(ctx, "captcha action mismatch", "expected", in.Action, "got", props.GetAction())
		return nil, model.InvalidInput("reCAPTCHA verification failed")
	}

	result := &Assessment{Action: props.GetAction()}
	if risk := response.GetRiskAnalysis(); risk != nil {
		result.Score = risk.GetScore()
		for _, reason := range risk.GetReasons() {
			result.Reasons = append(result.Reasons, reason.String())
		}
	}
	return result, nil
}
