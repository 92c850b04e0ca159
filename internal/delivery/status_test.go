package delivery

import (
	"context"
	"testing"

	db "github.com/manokmart/manokmart-BE/internal/db"
	"github.com/manokmart/manokmart-BE/internal/lalamove"
	"github.com/manokmart/manokmart-BE/internal/util"
	"github.com/manokmart/manokmart-BE/internal/worker"
	"github.com/stretchr/testify/require"
)

func TestMapProviderStatus(t *testing.T) {
	testCases := []struct {
		provider string
		order    db.OrderStatus
		mapped   bool
	}{
		{lalamove.StatusAssigningDriver, "", false},
		{lalamove.StatusOnGoing, "", false},
		{lalamove.StatusPickedUp, db.OrderStatusDelivering, true},
		{lalamove.StatusCompleted, db.OrderStatusDelivered, true},
		{lalamove.StatusCanceled, "", false},
		{lalamove.StatusRejected, db.OrderStatusFailed, true},
		{lalamove.StatusExpired, db.OrderStatusFailed, true},
	}

	for _, tc := range testCases {
		t.Run(tc.provider, func(t *testing.T) {
			status, ok := MapProviderStatus(tc.provider)
			require.Equal(t, tc.mapped, ok)
			require.Equal(t, tc.order, status)
		})
	}
}

func dispatchedStore(t *testing.T) (*fakeStore, *Orchestrator, *fakeDistributor, *fakeInspector) {
	t.Helper()

	provider := &fakeProvider{
		quotation: testQuotation(),
		placed:    &lalamove.Order{OrderID: "order-777", QuotationID: "q-20260831", Status: lalamove.StatusAssigningDriver},
	}
	store := &fakeStore{order: testOrder()}
	distributor := &fakeDistributor{}
	inspector := &fakeInspector{}
	orchestrator := newTestOrchestrator(provider, store, distributor, inspector)

	_, err := orchestrator.CreateDeliveryOrder(context.Background(), store.order)
	require.NoError(t, err)
	distributor.tasks = nil

	return store, orchestrator, distributor, inspector
}

func TestApplyStatusUpdate(t *testing.T) {
	store, orchestrator, distributor, _ := dispatchedStore(t)

	driver := &lalamove.Driver{Name: "Ramon", Phone: "+639170001111", PlateNumber: "ABC 1234"}
	updated, err := orchestrator.ApplyStatusUpdate(context.Background(), StatusUpdate{
		ProviderOrderID: "order-777",
		Status:          lalamove.StatusOnGoing,
		Driver:          driver,
	})
	require.NoError(t, err)
	require.Equal(t, lalamove.StatusOnGoing, *updated.Status)
	require.Equal(t, "Ramon", *updated.DriverName)
	// ON_GOING does not move the order itself.
	require.Equal(t, db.OrderStatusPackaging, store.order.Status)
	require.Empty(t, distributor.tasks)

	updated, err = orchestrator.ApplyStatusUpdate(context.Background(), StatusUpdate{
		ProviderOrderID: "order-777",
		Status:          lalamove.StatusPickedUp,
		Location:        &lalamove.Coordinates{Lat: "14.57", Lng: "121.04"},
	})
	require.NoError(t, err)
	require.Equal(t, db.OrderStatusDelivering, store.order.Status)
	require.Equal(t, "14.57", *updated.TrackingLat)
	// Driver details from the earlier event survive a partial update.
	require.Equal(t, "Ramon", *updated.DriverName)
	require.Len(t, distributor.tasks, 1)
	require.Equal(t, worker.TaskSendNotification, distributor.tasks[0].taskType)
}

func TestApplyStatusUpdateIsIdempotent(t *testing.T) {
	store, orchestrator, distributor, _ := dispatchedStore(t)

	update := StatusUpdate{ProviderOrderID: "order-777", Status: lalamove.StatusPickedUp}
	first, err := orchestrator.ApplyStatusUpdate(context.Background(), update)
	require.NoError(t, err)
	require.Len(t, distributor.tasks, 1)

	// Replaying the same event converges to the same state and sends no
	// second round of notifications.
	second, err := orchestrator.ApplyStatusUpdate(context.Background(), update)
	require.NoError(t, err)
	require.Equal(t, *first.Status, *second.Status)
	require.Equal(t, db.OrderStatusDelivering, store.order.Status)
	require.Len(t, distributor.tasks, 1)
}

func TestApplyStatusUpdateCompletedNotifiesBothParties(t *testing.T) {
	store, orchestrator, distributor, inspector := dispatchedStore(t)

	_, err := orchestrator.ApplyStatusUpdate(context.Background(), StatusUpdate{
		ProviderOrderID: "order-777",
		Status:          lalamove.StatusCompleted,
	})
	require.NoError(t, err)
	require.Equal(t, db.OrderStatusDelivered, store.order.Status)

	recipients := make([]string, 0, len(distributor.tasks))
	for _, task := range distributor.tasks {
		require.Equal(t, worker.TaskSendNotification, task.taskType)
		recipients = append(recipients, task.payload.(*worker.PayloadSendNotification).RecipientID)
	}
	require.ElementsMatch(t, []string{store.order.BuyerID, store.order.SellerID}, recipients)

	// A pending re-dispatch would be pointless once the order is delivered.
	require.Equal(t, []string{worker.RedispatchTaskID(store.order.ID)}, inspector.deleted)
}

func TestApplyStatusUpdateExpiredFailsOrder(t *testing.T) {
	store, orchestrator, _, _ := dispatchedStore(t)

	_, err := orchestrator.ApplyStatusUpdate(context.Background(), StatusUpdate{
		ProviderOrderID: "order-777",
		Status:          lalamove.StatusExpired,
		Reason:          "no driver accepted the order",
	})
	require.NoError(t, err)
	require.Equal(t, db.OrderStatusFailed, store.order.Status)
}

func TestApplyStatusUpdateUnknownProviderOrder(t *testing.T) {
	_, orchestrator, _, _ := dispatchedStore(t)

	_, err := orchestrator.ApplyStatusUpdate(context.Background(), StatusUpdate{
		ProviderOrderID: "order-999",
		Status:          lalamove.StatusPickedUp,
	})
	require.ErrorIs(t, err, db.ErrRecordNotFound)
}

func TestApplyStatusUpdateCanceledKeepsOrderStatus(t *testing.T) {
	store, orchestrator, _, _ := dispatchedStore(t)

	updated, err := orchestrator.ApplyStatusUpdate(context.Background(), StatusUpdate{
		ProviderOrderID: "order-777",
		Status:          lalamove.StatusCanceled,
	})
	require.NoError(t, err)
	require.Equal(t, lalamove.StatusCanceled, *updated.Status)
	require.Equal(t, db.OrderStatusPackaging, store.order.Status)
}

func TestDeliveryReferenceIsDeterministic(t *testing.T) {
	require.Equal(t, util.DeliveryReference("mm2401"), util.DeliveryReference("MM2401"))
	require.Equal(t, "manokmart-MM2401", util.DeliveryReference("MM2401"))
}
