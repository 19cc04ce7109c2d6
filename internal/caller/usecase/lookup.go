package usecase

import (
	"context"
	"strings"

	"ecodrive-query-api/internal/metrics"
	"ecodrive-query-api/internal/model"
	"ecodrive-query-api/pkg/crm"
)

func (uc *implUseCase) Lookup(ctx context.Context, phone string) model.Profile {
	phone = strings.TrimSpace(phone)
	if uc.directory == nil || phone == "" {
		return model.Profile{}
	}

	if uc.cache != nil {
		if v, ok := uc.cache.Get(phone); ok {
			if p, ok := v.(model.Profile); ok {
				return p
			}
		}
	}

	user, err := uc.directory.GetUserByPhone(ctx, phone)
	if err != nil {
		uc.metrics.UpstreamFailure(metrics.StepProfile)
		uc.l.Warnf(ctx, "%s: CRM lookup failed, using default profile: %v", LogPrefixLookup, err)
		return model.Profile{}
	}

	profile := toProfile(user, phone)
	if uc.cache != nil {
		uc.cache.SetWithTTL(phone, profile, 1, uc.ttl)
	}
	return profile
}

func toProfile(u crm.User, phone string) model.Profile {
	p := model.Profile{
		ID:            u.ID,
		Phone:         u.Phone,
		Name:          u.Name,
		Company:       u.Empresa,
		CRMIntentHint: u.CBIntent,
	}
	if p.Phone == "" {
		p.Phone = phone
	}
	return p
}
