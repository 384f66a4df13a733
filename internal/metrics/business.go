package metrics

// Registration modes
const (
	ModeIndividual = "individual"
	ModeTeam       = "team"
	ModeInvite     = "invite"
)

// Membership transitions
const (
	TransitionAccepted = "accepted"
	TransitionDeclined = "declined"
	TransitionRemoved  = "removed"
)

func (m *Metrics) IncrementRegistrationCreated(mode string) {
	m.safeExecute("IncrementRegistrationCreated", func() {
		m.RegistrationsCreatedTotal.WithLabelValues(mode).Inc()
	})
}

func (m *Metrics) IncrementInviteSent() {
	m.safeExecute("IncrementInviteSent", func() {
		m.InvitesSentTotal.Inc()
	})
}

func (m *Metrics) IncrementMembershipTransition(transition string) {
	m.safeExecute("IncrementMembershipTransition", func() {
		m.MembershipTransitionsTotal.WithLabelValues(transition).Inc()
	})
}

func (m *Metrics) IncrementTeamCompleted() {
	m.safeExecute("IncrementTeamCompleted", func() {
		m.TeamsCompletedTotal.Inc()
	})
}

// RecordCompensation counts a rolled back operation
func (m *Metrics) RecordCompensation(operation string, succeeded bool) {
	m.safeExecute("RecordCompensation", func() {
		result := "success"
		if !succeeded {
			result = "failure"
		}
		m.CompensationsTotal.WithLabelValues(operation, result).Inc()
	})
}

func (m *Metrics) IncrementTeamSizeDrift() {
	m.safeExecute("IncrementTeamSizeDrift", func() {
		m.TeamSizeDriftTotal.Inc()
	})
}

// RecordNotification counts a notification outcome: queued, sent, retried or failed
func (m *Metrics) RecordNotification(kind, result string) {
	m.safeExecute("RecordNotification", func() {
		m.NotificationsTotal.WithLabelValues(kind, result).Inc()
	})
}

// RecordTeamCache counts a cache lookup: hit, miss or error
func (m *Metrics) RecordTeamCache(result string) {
	m.safeExecute("RecordTeamCache", func() {
		m.TeamCacheRequestsTotal.WithLabelValues(result).Inc()
	})
}

func (m *Metrics) SetTeamsTotal(count int64) {
	m.safeExecute("SetTeamsTotal", func() {
		m.TeamsTotal.Set(float64(count))
	})
}

func (m *Metrics) SetRegistrationsTotal(count int64) {
	m.safeExecute("SetRegistrationsTotal", func() {
		m.RegistrationsTotal.Set(float64(count))
	})
}

func (m *Metrics) SetOutboxPending(count int64) {
	m.safeExecute("SetOutboxPending", func() {
		m.OutboxPending.Set(float64(count))
	})
}
