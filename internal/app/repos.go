package app

import (
	"gorm.io/gorm"

	"github.com/novinresanehco/lifeos-backend/internal/pkg/logger"
	"github.com/novinresanehco/lifeos-backend/internal/repos"
)

type Repos struct {
	User         repos.UserRepo
	UserToken    repos.UserTokenRepo
	UserSettings repos.UserSettingsRepo
	Item         repos.ItemRepo
	ItemRelation repos.ItemRelationRepo
	Comment      repos.CommentRepo
	Notification repos.NotificationRepo
	AIModel      repos.AIModelRepo
	AILog        repos.AILogRepo
	AIResult     repos.AIResultRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:         repos.NewUserRepo(db, log),
		UserToken:    repos.NewUserTokenRepo(db, log),
		UserSettings: repos.NewUserSettingsRepo(db, log),
		Item:         repos.NewItemRepo(db, log),
		ItemRelation: repos.NewItemRelationRepo(db, log),
		Comment:      repos.NewCommentRepo(db, log),
		Notification: repos.NewNotificationRepo(db, log),
		AIModel:      repos.NewAIModelRepo(db, log),
		AILog:        repos.NewAILogRepo(db, log),
		AIResult:     repos.NewAIResultRepo(db, log),
	}
}
