package services

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/pivault/internal/common"
	"github.com/dmitrijs2005/pivault/internal/server/config"
	"github.com/dmitrijs2005/pivault/internal/server/models"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTOTPService(db *sql.DB, rm *fakeRepoManager) *TOTPService {
	cfg := &config.Config{TOTPIssuer: "PiVault"}
	return NewTOTPService(db, rm, cfg)
}

func TestTOTPSetup_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	rm.u.byIDOut = &models.User{ID: "u1", Email: "user@example.com"}
	s := newTestTOTPService(db, rm)

	secret, url, err := s.Setup(context.Background(), "u1")
	require.NoError(t, err)

	assert.NotEmpty(t, secret)
	assert.Equal(t, secret, rm.u.savedSecret)
	assert.True(t, strings.HasPrefix(url, "otpauth://totp/"))
	assert.Contains(t, url, "PiVault")
	assert.Contains(t, url, "user@example.com")
}

func TestTOTPSetup_AlreadyEnabled(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	rm.u.byIDOut = &models.User{ID: "u1", Email: "user@example.com", TOTPEnabled: true}
	s := newTestTOTPService(db, rm)

	_, _, err := s.Setup(context.Background(), "u1")
	assert.ErrorIs(t, err, common.ErrTOTPAlreadyEnabled)
}

func TestTOTPSetup_ReplacesPendingSecret(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	rm.u.byIDOut = &models.User{ID: "u1", Email: "user@example.com", TOTPSecret: "OLDSECRET"}
	s := newTestTOTPService(db, rm)

	secret, _, err := s.Setup(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotEqual(t, "OLDSECRET", secret)
	assert.Equal(t, secret, rm.u.savedSecret)
}

func TestTOTPConfirm_NotSetUp(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	rm.u.byIDOut = &models.User{ID: "u1"}
	s := newTestTOTPService(db, rm)

	err := s.Confirm(context.Background(), "u1", "123456", testClient)
	assert.ErrorIs(t, err, common.ErrTOTPNotSetUp)
}

func TestTOTPConfirm_InvalidCode(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	rm.u.byIDOut = &models.User{ID: "u1", TOTPSecret: "JBSWY3DPEHPK3PXP"}
	s := newTestTOTPService(db, rm)

	err := s.Confirm(context.Background(), "u1", "000000", testClient)
	assert.ErrorIs(t, err, common.ErrInvalidTOTP)
	assert.False(t, rm.u.totpEnabled)
	assert.Empty(t, rm.al.entries)
}

func TestTOTPConfirm_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	secret := "JBSWY3DPEHPK3PXP"
	code, err := totp.GenerateCode(secret, time.Now().UTC())
	require.NoError(t, err)

	rm := newFakeRepoManager()
	rm.u.byIDOut = &models.User{ID: "u1", TOTPSecret: secret}
	s := newTestTOTPService(db, rm)

	require.NoError(t, s.Confirm(context.Background(), "u1", code, testClient))
	assert.True(t, rm.u.totpEnabled)

	audit := rm.al.lastAction(t)
	assert.Equal(t, AuditActionTOTPEnabled, audit.Action)
	assert.Equal(t, "u1", audit.UserID)
	assert.True(t, audit.Success)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTOTPDisable_NotEnabled(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	rm.u.byIDOut = &models.User{ID: "u1", TOTPSecret: "JBSWY3DPEHPK3PXP"}
	s := newTestTOTPService(db, rm)

	err := s.Disable(context.Background(), "u1", "123456", testClient)
	assert.ErrorIs(t, err, common.ErrTOTPNotEnabled)
}

func TestTOTPDisable_InvalidCode(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	rm.u.byIDOut = &models.User{ID: "u1", TOTPSecret: "JBSWY3DPEHPK3PXP", TOTPEnabled: true}
	s := newTestTOTPService(db, rm)

	err := s.Disable(context.Background(), "u1", "000000", testClient)
	assert.ErrorIs(t, err, common.ErrInvalidTOTP)
	assert.False(t, rm.u.totpCleared)
	assert.Empty(t, rm.al.entries)
}

func TestTOTPDisable_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	secret := "JBSWY3DPEHPK3PXP"
	code, err := totp.GenerateCode(secret, time.Now().UTC())
	require.NoError(t, err)

	rm := newFakeRepoManager()
	rm.u.byIDOut = &models.User{ID: "u1", TOTPSecret: secret, TOTPEnabled: true}
	s := newTestTOTPService(db, rm)

	require.NoError(t, s.Disable(context.Background(), "u1", code, testClient))
	assert.True(t, rm.u.totpCleared)

	audit := rm.al.lastAction(t)
	assert.Equal(t, AuditActionTOTPDisabled, audit.Action)
	assert.NoError(t, mock.ExpectationsWereMet())
}
