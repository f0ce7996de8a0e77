package wizard

import (
	"BeautyGenius/entity"
	"BeautyGenius/internal/theme"
	"BeautyGenius/internal/workflow"
)

type Core interface {
	OpenWorkflow() workflow.Snapshot
	CloseWorkflow(id string) error
	Snapshot(id string) (workflow.Snapshot, error)
	View(id, themeName, acceptLanguage string) (theme.View, error)
	Theme(name, acceptLanguage string) theme.Theme
	Render(th theme.Theme, snap workflow.Snapshot) theme.View
	Image(id, imageID, expires, sig string) (*entity.Image, error)

	UploadImage(id, name string, data []byte) (workflow.Snapshot, error)
	SetAge(id string, age int) (workflow.Snapshot, error)
	AdjustAge(id string, delta int) (workflow.Snapshot, error)
	SetSkinType(id, skinType string) (workflow.Snapshot, error)
	BeginAnalysis(id string) (workflow.Snapshot, error)

	Next(id string, force bool) (workflow.Snapshot, error)
	Back(id string) (workflow.Snapshot, error)
	Reset(id string) (workflow.Snapshot, error)
	Retry(id string) (workflow.Snapshot, error)
	Close(id string) error
}
