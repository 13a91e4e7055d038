package tracker

import (
	"context"
	"path"
	"strings"

	"github.com/pkg/errors"

	"github.com/BladMendez/asistencia-mec-nica/internal/roster"
	"github.com/BladMendez/asistencia-mec-nica/internal/types"
)

var ErrIncompleteRoster = errors.New("roster is missing its group or subject")

// PreviewRoster describes what ImportRoster would write without writing it.
func PreviewRoster(r *roster.Roster) *types.RosterImport {
	return &types.RosterImport{
		Worksheet:  r.Title(),
		Subject:    r.Subject,
		Group:      r.Group,
		Instructor: r.Instructor,
		Students:   append([]types.RosterRow{}, r.Students...),
	}
}

// ImportRoster writes r as the worksheet "<group> - <subject>", replacing
// its content when it exists. source, when given and an Archive is
// configured, is archived alongside; archive failures are logged only.
func (s *Service) ImportRoster(ctx context.Context, r *roster.Roster, source []byte) (*types.RosterImport, error) {
	if strings.TrimSpace(r.Group) == "" || strings.TrimSpace(r.Subject) == "" {
		return nil, ErrIncompleteRoster
	}
	if len(r.Students) == 0 {
		return nil, errors.Wrapf(ErrNoStudents, "%q", r.Title())
	}

	out := PreviewRoster(r)
	if err := s.store.ReplaceWorksheet(ctx, out.Worksheet, r.Table()); err != nil {
		return nil, errors.Wrap(err, "write roster")
	}
	out.Committed = true
	s.log.Info("roster imported", "worksheet", out.Worksheet, "students", len(out.Students))

	if s.archive != nil && len(source) > 0 {
		url, err := s.archive.UploadRoster(ctx, path.Join("rosters", out.Worksheet+".pdf"), source)
		if err != nil {
			s.log.Warn("roster archive failed", "worksheet", out.Worksheet, "error", err)
		} else {
			out.ArchiveURL = url
		}
	}
	return out, nil
}
