package domain

import (
	"fmt"
	"strings"
)

type ProjectStatus string

const (
	ProjectPlanned   ProjectStatus = "PLANNED"
	ProjectActive    ProjectStatus = "ACTIVE"
	ProjectCompleted ProjectStatus = "COMPLETED"
	ProjectDelayed   ProjectStatus = "DELAYED"
	ProjectCancelled ProjectStatus = "CANCELLED"
)

// ValidProjectStatuses is the canonical set of accepted project statuses.
var ValidProjectStatuses = map[ProjectStatus]bool{
	ProjectPlanned: true, ProjectActive: true, ProjectCompleted: true,
	ProjectDelayed: true, ProjectCancelled: true,
}

type ResourceCategory string

const (
	CategoryInternal        ResourceCategory = "INTERNAL"
	CategoryFieldTechnician ResourceCategory = "FIELD_TECHNICIAN"
	CategoryContractor      ResourceCategory = "CONTRACTOR"
	CategoryExternal        ResourceCategory = "EXTERNAL"
)

var ValidResourceCategories = map[ResourceCategory]bool{
	CategoryInternal: true, CategoryFieldTechnician: true,
	CategoryContractor: true, CategoryExternal: true,
}

type UnavailabilityType string

const (
	UnavailabilityVacation  UnavailabilityType = "VACATION"
	UnavailabilityTraining  UnavailabilityType = "TRAINING"
	UnavailabilitySickLeave UnavailabilityType = "SICK_LEAVE"
	UnavailabilityPersonal  UnavailabilityType = "PERSONAL"
	UnavailabilityOther     UnavailabilityType = "OTHER"
)

var ValidUnavailabilityTypes = map[UnavailabilityType]bool{
	UnavailabilityVacation: true, UnavailabilityTraining: true,
	UnavailabilitySickLeave: true, UnavailabilityPersonal: true,
	UnavailabilityOther: true,
}

type ApprovalState string

const (
	ApprovalPending  ApprovalState = "PENDING"
	ApprovalApproved ApprovalState = "APPROVED"
	ApprovalRejected ApprovalState = "REJECTED"
)

type TaskStatus string

const (
	TaskNotStarted TaskStatus = "NOT_STARTED"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskBlocked    TaskStatus = "BLOCKED"
	TaskCancelled  TaskStatus = "CANCELLED"
)

var ValidTaskStatuses = map[TaskStatus]bool{
	TaskNotStarted: true, TaskInProgress: true, TaskCompleted: true,
	TaskBlocked: true, TaskCancelled: true,
}

type DependencyType string

const (
	FinishToStart  DependencyType = "FINISH_TO_START"
	StartToStart   DependencyType = "START_TO_START"
	FinishToFinish DependencyType = "FINISH_TO_FINISH"
	StartToFinish  DependencyType = "START_TO_FINISH"
)

var ValidDependencyTypes = map[DependencyType]bool{
	FinishToStart: true, StartToStart: true,
	FinishToFinish: true, StartToFinish: true,
}

var dependencyShortCodes = map[string]DependencyType{
	"FS": FinishToStart, "SS": StartToStart, "FF": FinishToFinish, "SF": StartToFinish,
}

// ParseDependencyType accepts the full name or the FS/SS/FF/SF short code, in
// any case. An empty string means finish-to-start.
func ParseDependencyType(s string) (DependencyType, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return FinishToStart, nil
	}
	if t, ok := dependencyShortCodes[s]; ok {
		return t, nil
	}
	if t := DependencyType(strings.ReplaceAll(s, "-", "_")); ValidDependencyTypes[t] {
		return t, nil
	}
	return "", fmt.Errorf("unknown dependency type %q (want FS, SS, FF or SF)", s)
}

// Short returns the two-letter code.
func (t DependencyType) Short() string {
	for code, typ := range dependencyShortCodes {
		if typ == t {
			return code
		}
	}
	return string(t)
}

type OpenItemPriority string

const (
	PriorityLow      OpenItemPriority = "LOW"
	PriorityMedium   OpenItemPriority = "MEDIUM"
	PriorityHigh     OpenItemPriority = "HIGH"
	PriorityCritical OpenItemPriority = "CRITICAL"
)

var ValidOpenItemPriorities = map[OpenItemPriority]bool{
	PriorityLow: true, PriorityMedium: true, PriorityHigh: true, PriorityCritical: true,
}

type OpenItemStatus string

const (
	OpenItemOpen       OpenItemStatus = "OPEN"
	OpenItemInProgress OpenItemStatus = "IN_PROGRESS"
	OpenItemResolved   OpenItemStatus = "RESOLVED"
	OpenItemClosed     OpenItemStatus = "CLOSED"
)
