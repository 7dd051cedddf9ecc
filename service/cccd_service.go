package service

import (
	"bytes"
	"fmt"
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"

	"github.com/Aashish23092/loan-appraisal/dto"
	"github.com/Aashish23092/loan-appraisal/logger"
)

// CCCDService reads identification data from the QR code printed on a
// Vietnamese citizen identity card.
type CCCDService struct {
	log *logger.Logger
}

func NewCCCDService(log *logger.Logger) *CCCDService {
	return &CCCDService{log: log.With("service", "CCCDService")}
}

// ExtractFromImageBytes decodes a PNG or JPEG card image and reads its QR code.
func (s *CCCDService) ExtractFromImageBytes(data []byte) (*dto.CCCDExtractResponse, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode id card image: %w", err)
	}
	return s.ExtractFromImage(img)
}

// ExtractFromImage reads the card's QR code.
func (s *CCCDService) ExtractFromImage(img image.Image) (*dto.CCCDExtractResponse, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("failed to create binary bitmap: %w", err)
	}

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	result, err := qrcode.NewQRCodeReader().Decode(bmp, hints)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dto.ErrNoQRCode, err)
	}

	qrText := result.GetText()
	s.log.Debug("cccd qr decoded", "bytes", len(qrText))

	qrData, err := dto.ParseCCCDQR(qrText)
	if err != nil {
		return nil, err
	}

	return &dto.CCCDExtractResponse{
		NationalID: qrData.ID,
		OldID:      qrData.OldID,
		Name:       qrData.Name,
		DOB:        qrData.GetDOB(),
		Gender:     qrData.Gender,
		Address:    qrData.Address,
		IssueDate:  qrData.GetIssueDate(),
		Source:     "qr",
	}, nil
}
