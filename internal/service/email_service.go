package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
	enabled   bool
	debug     bool
}

// NewEmailService creates a new email service
func NewEmailService(awsRegion, fromEmail, fromName string, debug bool) (*EmailService, error) {
	// If fromEmail is empty, create a disabled service
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{
			enabled: false,
			debug:   debug,
		}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := sesv2.NewFromConfig(cfg)

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
		enabled:   true,
		debug:     debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendRewardRedeemed notifies a parent that their child spent gold on a reward
func (s *EmailService) SendRewardRedeemed(ctx context.Context, toEmail, rewardName string, cost int) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): reward redeemed to %s", toEmail)
		return nil
	}

	subject := fmt.Sprintf("Egg Adventure: reward redeemed - %s", rewardName)
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #f5a623; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.reward { font-size: 18px; font-weight: bold; text-align: center; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Reward Redeemed!</h1>
		</div>
		<div class="content">
			<p>Hi,</p>
			<p>Your child just redeemed a reward in Egg Adventure:</p>
			<p class="reward">%s (%d gold)</p>
			<p>Time to make good on it!</p>
		</div>
		<div class="footer">
			<p>This is an automated email from Egg Adventure. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, rewardName, cost)

	textBody := fmt.Sprintf(`Hi,

Your child just redeemed a reward in Egg Adventure:

  %s (%d gold)

Time to make good on it!

---
This is an automated email from Egg Adventure. Please do not reply.
`, rewardName, cost)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendWelcomeEmail sends a welcome email to newly registered accounts
func (s *EmailService) SendWelcomeEmail(ctx context.Context, toEmail string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): welcome to %s", toEmail)
		return nil
	}

	subject := "Welcome to Egg Adventure!"
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #f5a623; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Welcome to Egg Adventure!</h1>
		</div>
		<div class="content">
			<p>Hi %s,</p>
			<p>Your Egg Adventure account is ready. Your child can now explore the village, answer quiz questions to earn gold, and work toward the rewards you set up.</p>
			<p>Here's what you can do next:</p>
			<ul>
				<li>Switch to parent mode and add family rewards</li>
				<li>Set your notification email so you hear about redemptions</li>
				<li>Let your child pick a grade and start a challenge</li>
			</ul>
		</div>
		<div class="footer">
			<p>This is an automated email from Egg Adventure. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, toEmail)

	textBody := fmt.Sprintf(`Hi %s,

Your Egg Adventure account is ready. Your child can now explore the village,
answer quiz questions to earn gold, and work toward the rewards you set up.

Here's what you can do next:
- Switch to parent mode and add family rewards
- Set your notification email so you hear about redemptions
- Let your child pick a grade and start a challenge

---
This is an automated email from Egg Adventure. Please do not reply.
`, toEmail)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] SES message ID: %s", *result.MessageId)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
