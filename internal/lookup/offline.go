package lookup

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"github.com/ppiankov/numinfo/internal/model"
	"github.com/ppiankov/numinfo/internal/notify"
	"github.com/ppiankov/numinfo/internal/phone"
	"go.uber.org/zap"
)

// OfflineResolver answers lookups from libphonenumber's bundled carrier and
// geocoding data. Ported numbers keep their original carrier.
type OfflineResolver struct {
	defaultRegion string
	language      string
	notifier      notify.Notifier
	logger        *zap.Logger
}

// NewOfflineResolver creates a resolver. defaultRegion is an ISO code used
// for numbers written without a country code.
func NewOfflineResolver(defaultRegion, language string, notifier notify.Notifier, logger *zap.Logger) *OfflineResolver {
	if defaultRegion == "" {
		defaultRegion = "RU"
	}
	if language == "" {
		language = "en"
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OfflineResolver{
		defaultRegion: strings.ToUpper(defaultRegion),
		language:      language,
		notifier:      notifier,
		logger:        logger,
	}
}

// Lookup implements Client
func (o *OfflineResolver) Lookup(ctx context.Context, raw string) (model.LookupRecord, error) {
	record, err := o.resolve(ctx, raw)
	if err != nil {
		o.logger.Warn("offline lookup failed", zap.String("input", raw), zap.Stringer("kind", KindOf(err)), zap.Error(err))
		o.notifier.Notify(notify.Error(err.Error()))
		return model.LookupRecord{}, err
	}
	return record, nil
}

func (o *OfflineResolver) resolve(ctx context.Context, raw string) (model.LookupRecord, error) {
	digits := phone.Digits(raw)
	if len(digits) < phone.MinDigits {
		return model.LookupRecord{}, invalidInput(raw)
	}
	if err := ctx.Err(); err != nil {
		return model.LookupRecord{}, transportError(raw, "cancelled", err)
	}

	candidate := digits
	if strings.HasPrefix(strings.TrimSpace(raw), "+") {
		candidate = "+" + digits
	}

	num, err := phonenumbers.Parse(candidate, o.defaultRegion)
	if err != nil {
		return model.LookupRecord{}, &Error{Kind: RemoteError, Input: raw, Message: "unrecognized number", Err: err}
	}
	if !phonenumbers.IsValidNumber(num) {
		return model.LookupRecord{}, &Error{Kind: RemoteError, Input: raw, Message: fmt.Sprintf("no numbering plan matches %s", candidate)}
	}

	carrier, err := phonenumbers.GetCarrierForNumber(num, o.language)
	if err != nil || carrier == "" {
		return model.LookupRecord{}, &Error{Kind: RemoteError, Input: raw, Message: "no carrier data for number", Err: err}
	}

	region, err := phonenumbers.GetGeocodingForNumber(num, o.language)
	if err != nil || region == "" {
		region = phonenumbers.GetRegionCodeForNumber(num)
	}

	nsn := phonenumbers.GetNationalSignificantNumber(num)
	code, subscriber := splitNational(nsn, phonenumbers.GetLengthOfNationalDestinationCode(num))

	return model.LookupRecord{
		Code:     code,
		Num:      subscriber,
		FullNum:  strconv.Itoa(int(num.GetCountryCode())) + nsn,
		Operator: carrier,
		Region:   region,
	}, nil
}

// splitNational cuts a national significant number into its destination
// code and subscriber part
func splitNational(nsn string, ndcLen int) (string, string) {
	if ndcLen <= 0 || ndcLen >= len(nsn) {
		return "", nsn
	}
	return nsn[:ndcLen], nsn[ndcLen:]
}
