// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	instanceInfoMetricName = "icmptrace_instance_info"
	instanceInfoHelp       = "Build and host information of this icmptrace instance. Always 1."
)

// RegisterInstanceInfo registers the icmptrace_instance_info info-style metric on the given registry.
// It sets the gauge to 1 with labels version, go_version and instance_name.
// Empty strings are allowed; instanceName is usually the host name.
func RegisterInstanceInfo(registry prometheus.Registerer, instanceName, version string) error {
	info := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: instanceInfoMetricName,
			Help: instanceInfoHelp,
		},
		[]string{"version", "go_version", "instance_name"},
	)
	info.WithLabelValues(version, runtime.Version(), instanceName).Set(1)
	return registry.Register(info)
}
