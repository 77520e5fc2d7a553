// Package alerts implements the rule evaluation engine and webhook delivery
// for airgauge alerting. Rules are evaluated against incoming samples;
// webhooks are delivered to Teams, Slack, PagerDuty, or generic HTTP targets.
package alerts
