package graph

import (
	"time"

	"github.com/VitaminP8/postwall/internal/auth"
	"github.com/VitaminP8/postwall/internal/post"
	"github.com/VitaminP8/postwall/internal/subscription"
	"github.com/VitaminP8/postwall/internal/user"
)

// Resolver служит корневой точкой для всех резолверов.
// Все зависимости внедряются снаружи, резолверы не хранят состояния между вызовами.
type Resolver struct {
	PostStore           post.PostStorage
	UserStore           user.UserStorage
	SubscriptionManager subscription.Manager
	Tokens              *auth.TokenManager

	// Now подменяется в тестах
	Now func() time.Time
}

func (r *Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}
