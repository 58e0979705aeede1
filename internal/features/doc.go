// Package features приёмочные сценарии движка бронирования на godog
// Сценарии в booking.feature прогоняются на хранилище в памяти из testutil
package features
