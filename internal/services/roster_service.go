package services

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/tvhoang/workunit-api/internal/config"
	"github.com/tvhoang/workunit-api/internal/constants"
	"github.com/tvhoang/workunit-api/internal/models"
	"github.com/tvhoang/workunit-api/internal/policy"
	"github.com/tvhoang/workunit-api/internal/repository"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUnreadableWorkbook = errors.New("workbook could not be read")
	ErrEmptyRoster        = errors.New("no importable rows in workbook")
)

// RosterService manages the personnel list: listing visible staff and
// importing the roster spreadsheet.
type RosterService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
}

// NewRosterService creates a new RosterService.
func NewRosterService(userRepo repository.UserRepository, cfg *config.Config) *RosterService {
	return &RosterService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// ListVisible returns the users the actor may see in pickers and reports.
func (s *RosterService) ListVisible(actor models.User) ([]models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return policy.VisibleUsers(actor, users), nil
}

// ImportRoster replaces the personnel list with the rows of the uploaded
// spreadsheet. Column layout (first sheet, header row skipped): A name,
// B position, C unit, D gender, E date of birth, F phone, G email (required,
// rows without it are dropped), H delegate level, I notes. Imported accounts
// get the default password and must change it on first login. The root admin
// account survives the swap.
func (s *RosterService) ImportRoster(r io.Reader) (int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return 0, ErrUnreadableWorkbook
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return 0, ErrUnreadableWorkbook
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return 0, ErrUnreadableWorkbook
	}
	if len(rows) <= 1 {
		return 0, ErrEmptyRoster
	}

	defaultHash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return 0, ErrFailedToHashPassword
	}

	var keepIDs []string
	keptEmails := make(map[string]bool)
	if admin, err := s.userRepo.FindByEmail(s.cfg.AdminEmail); err == nil {
		keepIDs = append(keepIDs, admin.ID)
		keptEmails[strings.ToLower(admin.Email)] = true
	}

	// Emails are the unique login key: rows that repeat a kept account's
	// email (a re-imported export) or an earlier row are dropped.
	seen := make(map[string]bool)
	users := make([]models.User, 0, len(rows)-1)
	for _, row := range rows[1:] {
		u := rowToUser(row, string(defaultHash))
		if u == nil {
			continue
		}
		if keptEmails[u.Email] || seen[u.Email] {
			continue
		}
		seen[u.Email] = true
		users = append(users, *u)
	}
	if len(users) == 0 {
		return 0, ErrEmptyRoster
	}

	if err := s.userRepo.ReplaceAll(users, keepIDs); err != nil {
		return 0, fmt.Errorf("failed to import roster: %w", err)
	}

	return len(users), nil
}

// rowToUser maps one spreadsheet row to a user record. Rows without an email
// are silently dropped. Legacy role markers are resolved to the explicit role
// enum here, at the single ingestion point.
func rowToUser(row []string, passwordHash string) *models.User {
	email := strings.TrimSpace(cell(row, 6))
	if email == "" {
		return nil
	}

	level := strings.TrimSpace(cell(row, 7))
	if level == "" {
		level = constants.DefaultDelegateLevel
	}

	gender := models.GenderMale
	if strings.TrimSpace(cell(row, 3)) == "Nữ" {
		gender = models.GenderFemale
	}

	position := strings.TrimSpace(cell(row, 1))
	notes := strings.TrimSpace(cell(row, 8))

	role := models.RoleStaff
	switch {
	case notes == constants.AdminNotesMarker:
		role = models.RoleAdmin
	case strings.Contains(strings.ToLower(position), constants.UnitLeadTitle):
		role = models.RoleUnitLead
	}

	return &models.User{
		ID:                 uuid.NewString(),
		Name:               strings.TrimSpace(cell(row, 0)),
		Position:           position,
		Unit:               strings.TrimSpace(cell(row, 2)),
		Gender:             gender,
		DateOfBirth:        strings.TrimSpace(cell(row, 4)),
		Phone:              strings.TrimSpace(cell(row, 5)),
		Email:              strings.ToLower(email),
		PasswordHash:       passwordHash,
		Role:               role,
		DelegateLevel:      level,
		Notes:              notes,
		MustChangePassword: true,
	}
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
