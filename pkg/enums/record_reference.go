package enums

import "fmt"

// ReferenceOwner identifies the entity that indexes a record.
type ReferenceOwner string

const (
	ReferenceOwnerPart ReferenceOwner = "part"
	ReferenceOwnerUser ReferenceOwner = "user"
)

var validReferenceOwners = []ReferenceOwner{
	ReferenceOwnerPart,
	ReferenceOwnerUser,
}

func (o ReferenceOwner) IsValid() bool {
	for _, candidate := range validReferenceOwners {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseReferenceOwner converts raw input into ReferenceOwner.
func ParseReferenceOwner(value string) (ReferenceOwner, error) {
	for _, candidate := range validReferenceOwners {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid reference owner %q", value)
}

// RecordType identifies the lifecycle record kind that is indexed.
type RecordType string

const (
	RecordTypeProcurement RecordType = "procurement"
	RecordTypeDeployment  RecordType = "deployment"
)

var validRecordTypes = []RecordType{
	RecordTypeProcurement,
	RecordTypeDeployment,
}

func (r RecordType) String() string {
	return string(r)
}

func (r RecordType) IsValid() bool {
	for _, candidate := range validRecordTypes {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRecordType converts raw input into RecordType.
func ParseRecordType(value string) (RecordType, error) {
	for _, candidate := range validRecordTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid record type %q", value)
}
