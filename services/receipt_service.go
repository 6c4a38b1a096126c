package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"gorm.io/gorm"

	config "github.com/studyconnect/tutorhub/configs"
	"github.com/studyconnect/tutorhub/models"
)

// GenerateSessionReceipt renders a PDF receipt for a completed session,
// uploads it, and stores the URL on the session. Called fire-and-forget
// after completion; failures are logged, not surfaced to the caller.
func GenerateSessionReceipt(db *gorm.DB, sessionID uuid.UUID) {
	var session models.TutoringSession
	if err := db.Preload("Request").First(&session, "id = ?", sessionID).Error; err != nil {
		log.Printf("🔥 Receipt: session %s not found: %v", sessionID, err)
		return
	}
	if !session.Completed {
		return
	}
	if session.ReceiptURL != nil {
		return
	}

	var tutor models.Tutor
	if err := db.Preload("User").First(&tutor, "id = ?", session.TutorID).Error; err != nil {
		log.Printf("🔥 Receipt: tutor lookup failed for session %s: %v", sessionID, err)
		return
	}
	var tutee models.Tutee
	if err := db.Preload("User").First(&tutee, "id = ?", session.TuteeID).Error; err != nil {
		log.Printf("🔥 Receipt: tutee lookup failed for session %s: %v", sessionID, err)
		return
	}

	htmlData, err := generateReceiptHTML(session, tutor, tutee)
	if err != nil {
		log.Printf("🔥 Receipt: failed to render HTML: %v", err)
		return
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		log.Printf("🔥 Receipt: failed to generate PDF: %v", err)
		return
	}

	uploadURL, err := uploadReceipt(pdfBytes, session.ID.String())
	if err != nil {
		log.Printf("🔥 Receipt: upload failed: %v", err)
		return
	}

	if err := db.Model(&session).Update("receipt_url", uploadURL).Error; err != nil {
		log.Printf("🔥 Receipt: failed to save receipt URL for session %s: %v", sessionID, err)
		return
	}
	log.Printf("✅ Generated receipt for session %s.", sessionID)
}

func generateReceiptHTML(session models.TutoringSession, tutor models.Tutor, tutee models.Tutee) (string, error) {
	tmpl, err := template.ParseFiles("templates/receipt.html")
	if err != nil {
		return "", err
	}

	total := session.HourlyRate * float64(session.DurationMinutes) / 60

	data := struct {
		TutorName   string
		TuteeName   string
		Subject     string
		SessionDate string
		Duration    int
		HourlyRate  string
		Total       string
	}{
		TutorName:   tutor.User.FirstName + " " + tutor.User.LastName,
		TuteeName:   tutee.User.FirstName + " " + tutee.User.LastName,
		Subject:     session.Request.Subject,
		SessionDate: session.Date.Format("January 2, 2006"),
		Duration:    session.DurationMinutes,
		HourlyRate:  fmt.Sprintf("%.2f", session.HourlyRate),
		Total:       fmt.Sprintf("%.2f", total),
	}

	var renderedHTML bytes.Buffer
	if err := tmpl.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadReceipt(fileBytes []byte, sessionID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("receipts/%s_%s", sessionID, uuid.New().String()),
		Folder:       "tutorhub_receipts",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
