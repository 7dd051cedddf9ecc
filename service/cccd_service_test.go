package service

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aashish23092/loan-appraisal/dto"
	"github.com/Aashish23092/loan-appraisal/logger"
)

const cardPayload = "001085012345|123456789|NGUYEN VAN AN|01011985|Nam|12 Ly Thuong Kiet, Ha Noi|15062021"

func encodeQR(t *testing.T, payload string) []byte {
	t.Helper()

	matrix, err := qrcode.NewQRCodeWriter().Encode(payload, gozxing.BarcodeFormat_QR_CODE, 300, 300, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, matrix))
	return buf.Bytes()
}

func TestCCCDExtractFromImageBytes(t *testing.T) {
	svc := NewCCCDService(logger.NewNop())

	card, err := svc.ExtractFromImageBytes(encodeQR(t, cardPayload))
	require.NoError(t, err)

	assert.Equal(t, "001085012345", card.NationalID)
	assert.Equal(t, "123456789", card.OldID)
	assert.Equal(t, "NGUYEN VAN AN", card.Name)
	assert.Equal(t, "01/01/1985", card.DOB)
	assert.Equal(t, "Nam", card.Gender)
	assert.Equal(t, "12 Ly Thuong Kiet, Ha Noi", card.Address)
	assert.Equal(t, "15/06/2021", card.IssueDate)
	assert.Equal(t, "qr", card.Source)
}

func TestCCCDExtractRejectsForeignQR(t *testing.T) {
	svc := NewCCCDService(logger.NewNop())

	_, err := svc.ExtractFromImageBytes(encodeQR(t, "https://example.com"))
	assert.Error(t, err)
}

func TestCCCDExtractNoQRCode(t *testing.T) {
	svc := NewCCCDService(logger.NewNop())

	blank := image.NewGray(image.Rect(0, 0, 200, 200))
	for i := range blank.Pix {
		blank.Pix[i] = 0xff
	}

	_, err := svc.ExtractFromImage(blank)
	assert.ErrorIs(t, err, dto.ErrNoQRCode)
}

func TestCCCDExtractInvalidImage(t *testing.T) {
	svc := NewCCCDService(logger.NewNop())

	_, err := svc.ExtractFromImageBytes([]byte("not an image"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, dto.ErrNoQRCode)
}
