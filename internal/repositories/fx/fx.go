package fx

import (
	"github.com/orgball2608/vibestream/internal/repositories/account"
	"github.com/orgball2608/vibestream/internal/repositories/profile"
	"github.com/orgball2608/vibestream/internal/repositories/story"
	"go.uber.org/fx"
)

var Module = fx.Options(
	account.Module,
	profile.Module,
	story.Module,
)
