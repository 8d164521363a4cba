package gateway

import (
	"fmt"
	"strconv"
)

// SubjectKind names the entity family a checkout pays for.
type SubjectKind string

const (
	SubjectClubMembership    SubjectKind = "club_membership"
	SubjectEventRegistration SubjectKind = "event_registration"
)

const intentVersion = "1"

// Intent is the server-asserted payload carried through the gateway's
// metadata channel across the out-of-band payment step. It is written at
// session-creation time and read back verbatim at confirmation time, so the
// confirm step never has to trust client input for what was paid for.
type Intent struct {
	SubjectKind SubjectKind
	SubjectRef  uint
	PayerEmail  string
	DisplayName string
}

func (i Intent) Validate() error {
	switch i.SubjectKind {
	case SubjectClubMembership, SubjectEventRegistration:
	default:
		return fmt.Errorf("unknown subject kind %q", i.SubjectKind)
	}
	if i.SubjectRef == 0 {
		return fmt.Errorf("missing subject reference")
	}
	if i.PayerEmail == "" {
		return fmt.Errorf("missing payer email")
	}
	return nil
}

// Encode serializes the intent into the flat string map the gateway accepts
// as session metadata.
func (i Intent) Encode() map[string]string {
	return map[string]string{
		"version":      intentVersion,
		"subject_kind": string(i.SubjectKind),
		"subject_ref":  strconv.FormatUint(uint64(i.SubjectRef), 10),
		"payer_email":  i.PayerEmail,
		"display_name": i.DisplayName,
	}
}

// DecodeIntent parses and validates session metadata. Anything missing or
// unparseable is an error; the confirm step must not guess.
func DecodeIntent(meta map[string]string) (Intent, error) {
	if meta == nil {
		return Intent{}, fmt.Errorf("no metadata on session")
	}
	if v := meta["version"]; v != intentVersion {
		return Intent{}, fmt.Errorf("unsupported metadata version %q", v)
	}
	ref, err := strconv.ParseUint(meta["subject_ref"], 10, 64)
	if err != nil || ref == 0 {
		return Intent{}, fmt.Errorf("invalid subject reference %q", meta["subject_ref"])
	}
	intent := Intent{
		SubjectKind: SubjectKind(meta["subject_kind"]),
		SubjectRef:  uint(ref),
		PayerEmail:  meta["payer_email"],
		DisplayName: meta["display_name"],
	}
	if err := intent.Validate(); err != nil {
		return Intent{}, err
	}
	return intent, nil
}
