package ports

import (
	"voightkampff/internal/app/domain/dialog"
)

type LoaderPort interface {
	Load(skillPath, dialogName string) (dialog.TemplateSet, error)
	LoadAll(skillPath string) ([]dialog.TemplateSet, error)
	List(skillPath string) ([]string, error)
}

type ResolverPort interface {
	FindSkill(name string) (string, error)
}
