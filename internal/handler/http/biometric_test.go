package http

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func punchWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		ref, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, ref, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func (a *testApp) upload(t *testing.T, path, token, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if content != nil {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestBiometricHandler_ImportArchivesWorkbook(t *testing.T) {
	app := newTestApp(t)
	owner := app.seedUser(t, "owner@fresco.ph", user.RoleOwner)
	token := app.token(t, owner)

	w := app.do(t, http.MethodPost, "/api/v1/users", token, newEmployeeRequest("ana@fresco.ph", 1042))
	require.Equal(t, http.StatusCreated, w.Code)

	content := punchWorkbook(t, [][]interface{}{
		{"Employee No", "Timestamp"},
		{1042, "2024-03-04 09:02:00"},
		{9999, "2024-03-04 09:05:00"},
		{"abc", "2024-03-04 09:10:00"},
	})

	w = app.upload(t, "/api/v1/biometrics/import", token, "march.xlsx", content)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := dataOf(t, decodeBody(t, w))
	assert.EqualValues(t, 1, data["accepted"])
	assert.EqualValues(t, 1, data["unresolved"])
	assert.EqualValues(t, 1, data["rejected"])

	archived, err := filepath.Glob(filepath.Join(app.archiveDir, "punch-imports", "*", "*", "*", "*-march.xlsx"))
	require.NoError(t, err)
	assert.Len(t, archived, 1)
}

func TestBiometricHandler_ImportRejections(t *testing.T) {
	app := newTestApp(t)
	admin := app.seedUser(t, "admin@fresco.ph", user.RoleAdmin)
	employee := app.seedUser(t, "emp@fresco.ph", user.RoleEmployee)

	t.Run("missing file", func(t *testing.T) {
		w := app.upload(t, "/api/v1/biometrics/import", app.token(t, admin), "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("employee cannot import", func(t *testing.T) {
		w := app.upload(t, "/api/v1/biometrics/import", app.token(t, employee), "x.xlsx", []byte("x"))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestArchiveKey(t *testing.T) {
	now := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

	key := archiveKey(now, "../../etc/march.xlsx")
	assert.True(t, strings.HasPrefix(key, "punch-imports/2024/03/04/"), key)
	assert.True(t, strings.HasSuffix(key, "-march.xlsx"), key)

	assert.True(t, strings.HasSuffix(archiveKey(now, ""), "-workbook.xlsx"))
}
