package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/semak-karangan-api/internal/dto"
	"github.com/noah-isme/semak-karangan-api/internal/handler"
	"github.com/noah-isme/semak-karangan-api/internal/service"
	"github.com/noah-isme/semak-karangan-api/pkg/ocr"
)

type mockSemakService struct {
	manualReq dto.ManualSemakRequest
	ocrImage  []byte
	input     dto.SubmissionInput
	pages     [][]byte
	uid       string
	pupils    []dto.BulkPupil
	files     map[string][][]byte
	result    dto.AnalysisResult
	bulk      dto.BulkResponse
	err       error
}

func (m *mockSemakService) AnalyzeManual(_ context.Context, req dto.ManualSemakRequest) (dto.AnalysisResult, error) {
	m.manualReq = req
	if m.err != nil {
		return dto.AnalysisResult{}, m.err
	}
	if err := validator.New().Struct(req); err != nil {
		return dto.AnalysisResult{}, err
	}
	return m.result, nil
}

func (m *mockSemakService) ExtractText(_ context.Context, image []byte) (dto.OCRResponse, error) {
	m.ocrImage = image
	if m.err != nil {
		return dto.OCRResponse{}, m.err
	}
	return dto.OCRResponse{Text: "Pada hari Sabtu."}, nil
}

func (m *mockSemakService) AnalyzeOCR(_ context.Context, input dto.SubmissionInput, pages [][]byte) (dto.AnalysisResult, error) {
	m.input = input
	m.pages = pages
	if m.err != nil {
		return dto.AnalysisResult{}, m.err
	}
	return m.result, nil
}

func (m *mockSemakService) Bulk(_ context.Context, uid string, pupils []dto.BulkPupil, files map[string][][]byte) (dto.BulkResponse, error) {
	m.uid = uid
	m.pupils = pupils
	m.files = files
	if m.err != nil {
		return dto.BulkResponse{}, m.err
	}
	return m.bulk, nil
}

func setupSemakApp(svc service.SemakService, uid string) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/semak", func(c *fiber.Ctx) error {
		if uid != "" {
			c.Locals("user_id", uid)
		}
		return c.Next()
	})
	handler.NewSemakHandler(svc, 1, zerolog.New(io.Discard)).Register(group)
	return app
}

type multipartFile struct {
	field    string
	filename string
	content  []byte
}

func multipartRequest(t *testing.T, path string, fields map[string]string, files []multipartFile) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	for _, file := range files {
		part, err := writer.CreateFormFile(file.field, file.filename)
		require.NoError(t, err)
		_, err = part.Write(file.content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func TestSemakHandler_Manual(t *testing.T) {
	svc := &mockSemakService{result: dto.AnalysisResult{Name: "Aminah", ContentScore: 14, LanguageScore: 16, TotalScore: 30}}
	app := setupSemakApp(svc, "guru-1")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/semak/manual", strings.NewReader(`{"nama":"Aminah","set":"Set A","karangan":"Saya suka membaca."}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success bool               `json:"success"`
		Data    dto.AnalysisResult `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.True(t, response.Success)
	require.Equal(t, 30, response.Data.TotalScore)
	require.Equal(t, "Saya suka membaca.", svc.manualReq.Karangan)
	require.Equal(t, "Set A", svc.manualReq.Set)
}

func TestSemakHandler_ManualRequiresEssay(t *testing.T) {
	app := setupSemakApp(&mockSemakService{}, "guru-1")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/semak/manual", strings.NewReader(`{"nama":"Aminah"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSemakHandler_OCR(t *testing.T) {
	svc := &mockSemakService{}
	app := setupSemakApp(svc, "guru-1")

	req := multipartRequest(t, "/api/v1/semak/ocr", nil, []multipartFile{{field: "file", filename: "page.png", content: []byte("png-bytes")}})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data dto.OCRResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Equal(t, "Pada hari Sabtu.", response.Data.Text)
	require.Equal(t, []byte("png-bytes"), svc.ocrImage)
}

func TestSemakHandler_OCRMissingFile(t *testing.T) {
	app := setupSemakApp(&mockSemakService{}, "guru-1")

	req := multipartRequest(t, "/api/v1/semak/ocr", map[string]string{"nama": "Aminah"}, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSemakHandler_OCRRejectsOversizedFile(t *testing.T) {
	app := setupSemakApp(&mockSemakService{}, "guru-1")

	big := bytes.Repeat([]byte("a"), (1<<20)+1)
	req := multipartRequest(t, "/api/v1/semak/ocr", nil, []multipartFile{{field: "file", filename: "page.png", content: big}})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestSemakHandler_OCRAnalyse(t *testing.T) {
	svc := &mockSemakService{result: dto.AnalysisResult{Name: "Aminah", TotalScore: 22}}
	app := setupSemakApp(svc, "guru-1")

	req := multipartRequest(t, "/api/v1/semak/ocr-analyse",
		map[string]string{"nama": " Aminah ", "set": "Set B", "pictureDescription": "Pasar malam", "pictureUrl": "https://example.com/p.jpg"},
		[]multipartFile{
			{field: "file", filename: "p1.png", content: []byte("one")},
			{field: "file", filename: "p2.png", content: []byte("two")},
		})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Equal(t, "Aminah", svc.input.Name)
	require.Equal(t, "Set B", svc.input.Set)
	require.Equal(t, "Pasar malam", svc.input.PictureDescription)
	require.Equal(t, "https://example.com/p.jpg", svc.input.PictureURL)
	require.Equal(t, [][]byte{[]byte("one"), []byte("two")}, svc.pages)
}

func TestSemakHandler_Bulk(t *testing.T) {
	svc := &mockSemakService{bulk: dto.BulkResponse{
		Results:        []dto.BulkItemResult{{ID: "1", AnalysisResult: &dto.AnalysisResult{Name: "Aminah"}}, {ID: "2", Error: "Fail OCR tidak dijumpai."}},
		CreditsCharged: 3,
		Balance:        7,
	}}
	app := setupSemakApp(svc, "guru-1")

	pupils := `[{"id":1,"nama":"Aminah","mode":"manual","karangan":"Saya suka.","checked":"true"},{"id":"2","nama":"Badrul","mode":"ocr","checked":true}]`
	req := multipartRequest(t, "/api/v1/semak/bulk",
		map[string]string{"pupils": pupils},
		[]multipartFile{
			{field: "file_2", filename: "a.png", content: []byte("page-a")},
			{field: "file_2", filename: "b.png", content: []byte("page-b")},
			{field: "lampiran", filename: "c.png", content: []byte("ignored")},
		})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data dto.BulkResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Equal(t, 3, response.Data.CreditsCharged)
	require.Len(t, response.Data.Results, 2)
	require.Equal(t, "Fail OCR tidak dijumpai.", response.Data.Results[1].Error)

	require.Equal(t, "guru-1", svc.uid)
	require.Len(t, svc.pupils, 2)
	require.Equal(t, dto.FlexString("1"), svc.pupils[0].ID)
	require.True(t, bool(svc.pupils[0].Checked))
	require.Len(t, svc.files, 1)
	require.Len(t, svc.files["file_2"], 2)
}

func TestSemakHandler_BulkRequiresIdentity(t *testing.T) {
	app := setupSemakApp(&mockSemakService{}, "")

	req := multipartRequest(t, "/api/v1/semak/bulk", map[string]string{"pupils": "[]"}, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSemakHandler_BulkRejectsMalformedPupils(t *testing.T) {
	app := setupSemakApp(&mockSemakService{}, "guru-1")

	req := multipartRequest(t, "/api/v1/semak/bulk", map[string]string{"pupils": "{bukan json"}, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSemakHandler_ServiceErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		statusCode int
		message    string
	}{
		{name: "no_pupils", err: service.ErrNoPupilsSelected, statusCode: fiber.StatusBadRequest, message: "Tiada murid dipilih untuk semakan."},
		{name: "credits", err: service.ErrInsufficientCredits, statusCode: fiber.StatusForbidden, message: "Kredit tidak mencukupi untuk melakukan semakan ini."},
		{name: "no_account", err: service.ErrCreditAccountNotFound, statusCode: fiber.StatusForbidden},
		{name: "no_text", err: service.ErrNoTextExtracted, statusCode: fiber.StatusBadRequest},
		{name: "not_image", err: ocr.ErrUnsupportedImage, statusCode: fiber.StatusBadRequest},
		{name: "ocr_down", err: service.ErrOCRUnavailable, statusCode: fiber.StatusServiceUnavailable},
		{name: "generic", err: errors.New("boom"), statusCode: fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := setupSemakApp(&mockSemakService{err: tc.err}, "guru-1")

			req := multipartRequest(t, "/api/v1/semak/bulk", map[string]string{"pupils": `[{"id":"1","nama":"Aminah","mode":"manual","checked":true}]`}, nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.statusCode, resp.StatusCode)

			var response struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}
			decodeResponse(t, resp, &response)
			require.False(t, response.Success)
			if tc.message != "" {
				require.Equal(t, tc.message, response.Message)
			}
		})
	}
}
