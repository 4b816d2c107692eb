package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	PersonsRegistered     prometheus.Counter
	CatsRegistered        prometheus.Counter
	AdvertisementsCreated prometheus.Counter
	AdvertisementsClosed  prometheus.Counter
	AdvertisementsExpired prometheus.Counter
	ThumbnailsUploaded    prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		PersonsRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rehome_persons_registered_total",
			Help: "Total number of persons registered",
		}),
		CatsRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rehome_cats_registered_total",
			Help: "Total number of cats added to person profiles",
		}),
		AdvertisementsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rehome_advertisements_created_total",
			Help: "Total number of rehoming advertisements created",
		}),
		AdvertisementsClosed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rehome_advertisements_closed_total",
			Help: "Total number of advertisements closed after adoption",
		}),
		AdvertisementsExpired: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rehome_advertisements_expired_total",
			Help: "Total number of advertisements marked expired",
		}),
		ThumbnailsUploaded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rehome_thumbnails_uploaded_total",
			Help: "Total number of advertisement thumbnails uploaded",
		}),
	}
}
