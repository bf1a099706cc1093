package feedback_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"blogpress/internal/repositories"
	"blogpress/internal/services"
	"blogpress/pkg/logging"
	"blogpress/pkg/metrics"
)

var Module = fx.Provide(
	provideFeedbackRepo, provideFeedbackService,
)

func provideFeedbackRepo(db *gorm.DB) repositories.FeedbackRepositoryInterface {
	return repositories.NewFeedbackRepository(db)
}

func provideFeedbackService(
	feedbackRepo repositories.FeedbackRepositoryInterface,
	posts repositories.PostRepository,
	resolver services.PostResolver,
	notifier services.NotificationServiceInterface,
	logger logging.Logger,
	m *metrics.Metrics,
) services.FeedbackServiceInterface {
	return services.NewFeedbackService(feedbackRepo, posts, resolver, notifier, logger, m)
}
