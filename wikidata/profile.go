package wikidata

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/teranos/wd/errors"
	"github.com/teranos/wd/internal/util"
)

// ProfileType selects a curated field schema
type ProfileType string

const (
	ProfileCompany ProfileType = "company"
	ProfilePerson  ProfileType = "person"
	ProfilePlace   ProfileType = "place"
)

// ProfileTypes lists the supported profile types in display order
var ProfileTypes = []ProfileType{ProfileCompany, ProfilePerson, ProfilePlace}

// ProfileProvider names the service the profile statements come from
const ProfileProvider = "wikidata-textifier"

// fetchedAtLayout is an ISO-8601 UTC timestamp with milliseconds
const fetchedAtLayout = "2006-01-02T15:04:05.000Z"

// ProfileFieldDefinition maps one semantic field to the properties feeding it
type ProfileFieldDefinition struct {
	Key         string
	Label       string
	PropertyIDs []string
}

var profileFields = map[ProfileType][]ProfileFieldDefinition{
	ProfileCompany: {
		{Key: "instance_of", Label: "Instance of", PropertyIDs: []string{"P31"}},
		{Key: "industry", Label: "Industry", PropertyIDs: []string{"P452"}},
		{Key: "country", Label: "Country", PropertyIDs: []string{"P17"}},
		{Key: "headquarters", Label: "Headquarters location", PropertyIDs: []string{"P159"}},
		{Key: "inception", Label: "Inception date", PropertyIDs: []string{"P571"}},
		{Key: "founded_by", Label: "Founded by", PropertyIDs: []string{"P112"}},
		{Key: "chief_executive_officer", Label: "Chief executive officer", PropertyIDs: []string{"P169"}},
		{Key: "owner", Label: "Owner", PropertyIDs: []string{"P127"}},
		{Key: "employees", Label: "Number of employees", PropertyIDs: []string{"P1128"}},
		{Key: "official_website", Label: "Official website", PropertyIDs: []string{"P856"}},
	},
	ProfilePerson: {
		{Key: "instance_of", Label: "Instance of", PropertyIDs: []string{"P31"}},
		{Key: "occupation", Label: "Occupation", PropertyIDs: []string{"P106"}},
		{Key: "citizenship", Label: "Country of citizenship", PropertyIDs: []string{"P27"}},
		{Key: "date_of_birth", Label: "Date of birth", PropertyIDs: []string{"P569"}},
		{Key: "date_of_death", Label: "Date of death", PropertyIDs: []string{"P570"}},
		{Key: "place_of_birth", Label: "Place of birth", PropertyIDs: []string{"P19"}},
		{Key: "place_of_death", Label: "Place of death", PropertyIDs: []string{"P20"}},
		{Key: "employer", Label: "Employer", PropertyIDs: []string{"P108"}},
		{Key: "educated_at", Label: "Educated at", PropertyIDs: []string{"P69"}},
		{Key: "official_website", Label: "Official website", PropertyIDs: []string{"P856"}},
	},
	ProfilePlace: {
		{Key: "instance_of", Label: "Instance of", PropertyIDs: []string{"P31"}},
		{Key: "country", Label: "Country", PropertyIDs: []string{"P17"}},
		{Key: "located_in_administrative_entity", Label: "Located in administrative entity", PropertyIDs: []string{"P131"}},
		{Key: "continent", Label: "Continent", PropertyIDs: []string{"P30"}},
		{Key: "inception", Label: "Inception date", PropertyIDs: []string{"P571"}},
		{Key: "population", Label: "Population", PropertyIDs: []string{"P1082"}},
		{Key: "area", Label: "Area", PropertyIDs: []string{"P2046"}},
		{Key: "elevation", Label: "Elevation above sea level", PropertyIDs: []string{"P2048"}},
		{Key: "coordinate_location", Label: "Coordinate location", PropertyIDs: []string{"P625"}},
		{Key: "official_website", Label: "Official website", PropertyIDs: []string{"P856"}},
	},
}

// ParseProfileType validates a user-supplied profile type
func ParseProfileType(s string) (ProfileType, error) {
	t := ProfileType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := profileFields[t]; !ok {
		return "", errors.WithHint(
			errors.NewInvalidRequestError("unsupported profile type: %s", s),
			"use one of: "+profileTypeList(),
		)
	}
	return t, nil
}

func profileTypeList() string {
	names := make([]string, len(ProfileTypes))
	for i, t := range ProfileTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// ProfileFieldDefinitions returns a copy of the schema for t
func ProfileFieldDefinitions(t ProfileType) ([]ProfileFieldDefinition, error) {
	definitions, ok := profileFields[t]
	if !ok {
		return nil, errors.NewInvalidRequestError("unsupported profile type: %s", t)
	}
	out := make([]ProfileFieldDefinition, len(definitions))
	for i, d := range definitions {
		out[i] = ProfileFieldDefinition{Key: d.Key, Label: d.Label, PropertyIDs: append([]string(nil), d.PropertyIDs...)}
	}
	return out, nil
}

// ProfilePropertyIDs is the deduplicated union of the definitions' properties
func ProfilePropertyIDs(definitions []ProfileFieldDefinition) []string {
	var ids []string
	for _, d := range definitions {
		ids = append(ids, d.PropertyIDs...)
	}
	return util.UniqueStrings(ids)
}

// ProfileFieldValue is one normalized value of a profile field
type ProfileFieldValue struct {
	Display             string `json:"display" yaml:"display"`
	Value               string `json:"value" yaml:"value"`
	EntityID            string `json:"entity_id,omitempty" yaml:"entity_id,omitempty"`
	SourcePropertyID    string `json:"source_property_id" yaml:"source_property_id"`
	SourcePropertyLabel string `json:"source_property_label" yaml:"source_property_label"`
	Rank                string `json:"rank" yaml:"rank"`
	ReferenceCount      int    `json:"reference_count" yaml:"reference_count"`
}

func (v ProfileFieldValue) dedupeKey() string {
	return strings.Join([]string{
		v.Display,
		v.EntityID,
		v.SourcePropertyID,
		v.Rank,
		strconv.Itoa(v.ReferenceCount),
	}, "|")
}

// ProfileField is one populated field of a profile
type ProfileField struct {
	Label       string              `json:"label" yaml:"label"`
	PropertyIDs []string            `json:"property_ids" yaml:"property_ids"`
	Values      []ProfileFieldValue `json:"values" yaml:"values"`
}

// ProfileSources records where the profile data came from
type ProfileSources struct {
	Provider    string   `json:"provider" yaml:"provider"`
	URL         string   `json:"url" yaml:"url"`
	PropertyIDs []string `json:"property_ids" yaml:"property_ids"`
}

// ProfileResult is a curated view of one entity. Fields serialize as a map;
// FieldOrder keeps the schema order for text rendering.
type ProfileResult struct {
	EntityID    string                  `json:"entity_id" yaml:"entity_id"`
	ProfileType ProfileType             `json:"profile_type" yaml:"profile_type"`
	Lang        string                  `json:"lang" yaml:"lang"`
	FetchedAt   string                  `json:"fetched_at" yaml:"fetched_at"`
	Label       string                  `json:"label" yaml:"label"`
	Description string                  `json:"description" yaml:"description"`
	Fields      map[string]ProfileField `json:"fields" yaml:"fields"`
	FieldOrder  []string                `json:"-" yaml:"-"`
	Sources     ProfileSources          `json:"sources" yaml:"sources"`
	Message     string                  `json:"message,omitempty" yaml:"message,omitempty"`
}

// GetProfile fetches every property of the profile schema in one request and
// normalizes the claims into fields. A missing entity yields a result with a
// message, not an error.
func (c *Client) GetProfile(ctx context.Context, entityID string, profileType ProfileType, lang string) (ProfileResult, error) {
	entityID = strings.TrimSpace(entityID)
	if entityID == "" {
		return ProfileResult{}, errors.NewInvalidRequestError("entity ID cannot be empty")
	}
	definitions, err := ProfileFieldDefinitions(profileType)
	if err != nil {
		return ProfileResult{}, err
	}
	lang = util.FirstNonEmpty(lang, DefaultLang)

	propertyIDs := ProfilePropertyIDs(definitions)
	response, err := c.getTripletValues(ctx, []string{entityID}, propertyIDs, textifierOptions{
		ExternalIDs: true,
		AllRanks:    true,
		References:  true,
		Qualifiers:  true,
		Lang:        lang,
	})
	if err != nil {
		return ProfileResult{}, errors.Wrapf(err, "get %s profile for %s", profileType, entityID)
	}

	result := ProfileResult{
		EntityID:    entityID,
		ProfileType: profileType,
		Lang:        lang,
		FetchedAt:   c.now().UTC().Format(fetchedAtLayout),
		Sources: ProfileSources{
			Provider:    ProfileProvider,
			URL:         c.cfg.Endpoints.TextifierURL,
			PropertyIDs: propertyIDs,
		},
	}
	for _, d := range definitions {
		result.FieldOrder = append(result.FieldOrder, d.Key)
	}

	entity, ok := response[entityID]
	if !ok {
		result.Fields = emptyProfileFields(definitions)
		result.Message = notFoundMessage(entityID)
		return result, nil
	}

	result.Label = strings.TrimSpace(entity.Label)
	result.Description = strings.TrimSpace(entity.Description)
	result.Fields = ProfileFieldsFromEntity(entity, definitions)
	return result, nil
}

func emptyProfileFields(definitions []ProfileFieldDefinition) map[string]ProfileField {
	fields := make(map[string]ProfileField, len(definitions))
	for _, d := range definitions {
		fields[d.Key] = ProfileField{
			Label:       d.Label,
			PropertyIDs: append([]string(nil), d.PropertyIDs...),
			Values:      []ProfileFieldValue{},
		}
	}
	return fields
}

// ProfileFieldsFromEntity populates each field from the claims whose property
// is listed in its definition. Values with an identical dedupe key collapse to
// the first occurrence.
func ProfileFieldsFromEntity(entity Entity, definitions []ProfileFieldDefinition) map[string]ProfileField {
	fields := emptyProfileFields(definitions)

	for _, d := range definitions {
		field := fields[d.Key]
		seen := map[string]struct{}{}

		for _, claim := range entity.Claims {
			propertyID := strings.TrimSpace(claim.PID)
			if propertyID == "" || !slices.Contains(d.PropertyIDs, propertyID) {
				continue
			}
			propertyLabel := util.FirstNonEmpty(claim.PropertyLabel, propertyID)

			for _, claimValue := range claim.Values {
				value := normalizeProfileValue(claimValue, propertyID, propertyLabel)
				if value.Display == "" {
					continue
				}
				key := value.dedupeKey()
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				field.Values = append(field.Values, value)
			}
		}
		fields[d.Key] = field
	}
	return fields
}

func normalizeProfileValue(claimValue ClaimValue, propertyID, propertyLabel string) ProfileFieldValue {
	var display, entityID string
	if ref, ok := claimValue.Value.EntityRef(); ok {
		entityID = ref.ID
		display = util.FirstNonEmpty(ref.Label, ref.ID)
	} else {
		display = strings.TrimSpace(claimValue.Value.Stringify())
	}

	return ProfileFieldValue{
		Display:             display,
		Value:               display,
		EntityID:            entityID,
		SourcePropertyID:    propertyID,
		SourcePropertyLabel: propertyLabel,
		Rank:                util.FirstNonEmpty(claimValue.Rank, DefaultRank),
		ReferenceCount:      len(claimValue.References),
	}
}

// FetchedAtTime parses FetchedAt back into a time
func (r ProfileResult) FetchedAtTime() (time.Time, error) {
	return time.Parse(fetchedAtLayout, r.FetchedAt)
}
