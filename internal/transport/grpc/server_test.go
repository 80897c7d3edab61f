package grpcserver

import (
	"context"
	"net"
	"testing"
	"time"

	meterv1 "github.com/dachrisch/energy.consumption-sub001/internal/api/meterv1"
	"github.com/dachrisch/energy.consumption-sub001/internal/domain"
	"github.com/dachrisch/energy.consumption-sub001/internal/meter"
	"github.com/dachrisch/energy.consumption-sub001/internal/repo/csvrepo"
	"github.com/dachrisch/energy.consumption-sub001/internal/service"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func startServer(t *testing.T, readings []domain.Reading) meterv1.ConsumptionServiceClient {
	t.Helper()

	svc := service.NewConsumptionService(csvrepo.New(readings), meter.NewEngine(), nil)
	srv := New(svc, nil)

	lis := bufconn.Listen(1024 * 1024)
	g := grpc.NewServer()
	meterv1.RegisterConsumptionServiceServer(g, srv)
	go func() { _ = g.Serve(lis) }()
	t.Cleanup(g.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return lis.Dial() }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return meterv1.NewConsumptionServiceClient(conn)
}

func TestServer_GetMonthlyReadings_Qualities(t *testing.T) {
	t.Parallel()

	client := startServer(t, []domain.Reading{
		{Time: meter.MonthEnd(2023, time.July), Amount: 1600, Type: domain.CommodityPower},
		{Time: meter.MonthEnd(2023, time.January), Amount: 1000, Type: domain.CommodityPower},
		{Time: meter.MonthEnd(2023, time.April), Amount: 1300, Type: domain.CommodityPower},
	})

	resp, err := client.GetMonthlyReadings(context.Background(), &meterv1.YearRequest{Commodity: "power", Year: 2023})
	if err != nil {
		t.Fatalf("GetMonthlyReadings: %v", err)
	}
	if got, want := len(resp.Points), 12; got != want {
		t.Fatalf("len(points)=%d want %d", got, want)
	}
	wantQuality := map[int]string{0: "actual", 1: "interpolated", 3: "actual", 7: "extrapolated", 11: "extrapolated"}
	for i, q := range wantQuality {
		if got := resp.Points[i].Quality; got != q {
			t.Fatalf("points[%d].quality=%q want %q", i, got, q)
		}
	}
	if resp.Points[1].Ratio == nil || len(resp.Points[1].Sources) != 2 {
		t.Fatalf("expected interpolation details, got %#v", resp.Points[1])
	}
	if got, want := resp.Points[1].Sources[0].Time.AsTime(), meter.MonthEnd(2023, time.January); !got.Equal(want) {
		t.Fatalf("sources[0].time=%s want %s", got, want)
	}
	if got, want := resp.Points[0].MonthLabel, "Jan"; got != want {
		t.Fatalf("label=%q want %q", got, want)
	}
}

func TestServer_GetMonthlyConsumption(t *testing.T) {
	t.Parallel()

	var readings []domain.Reading
	for m := time.January; m <= time.December; m++ {
		readings = append(readings, domain.Reading{Time: meter.MonthEnd(2023, m), Amount: 100 * float64(m), Type: domain.CommodityGas})
	}
	client := startServer(t, readings)

	resp, err := client.GetMonthlyConsumption(context.Background(), &meterv1.YearRequest{Commodity: "gas", Year: 2023})
	if err != nil {
		t.Fatalf("GetMonthlyConsumption: %v", err)
	}
	if resp.Points[0].Consumption != nil {
		t.Fatalf("january without previous december should have no consumption, got %v", *resp.Points[0].Consumption)
	}
	if resp.PreviousDecember != nil {
		t.Fatalf("previous december should be omitted without prior-year readings, got %#v", resp.PreviousDecember)
	}
	for _, p := range resp.Points[1:] {
		if p.Consumption == nil || *p.Consumption != 100 || !p.IsActual || p.IsDerived {
			t.Fatalf("unexpected point %#v", p)
		}
	}
}

func TestServer_InvalidArgument(t *testing.T) {
	t.Parallel()

	client := startServer(t, nil)
	ctx := context.Background()

	_, err := client.GetMonthlyConsumption(ctx, &meterv1.YearRequest{Commodity: "steam", Year: 2023})
	if got, want := status.Code(err), codes.InvalidArgument; got != want {
		t.Fatalf("code=%v want %v", got, want)
	}
	_, err = client.GetMonthlyReadings(ctx, &meterv1.YearRequest{Commodity: "power", Year: 12})
	if got, want := status.Code(err), codes.InvalidArgument; got != want {
		t.Fatalf("code=%v want %v", got, want)
	}
	_, err = client.GetConsumptionBatch(ctx, &meterv1.BatchRequest{})
	if got, want := status.Code(err), codes.InvalidArgument; got != want {
		t.Fatalf("code=%v want %v", got, want)
	}
}

func TestServer_GetConsumptionBatch(t *testing.T) {
	t.Parallel()

	client := startServer(t, []domain.Reading{
		{Time: meter.MonthEnd(2023, time.March), Amount: 10, Type: domain.CommodityWater},
	})

	resp, err := client.GetConsumptionBatch(context.Background(), &meterv1.BatchRequest{Keys: []*meterv1.YearRequest{
		{Commodity: "water", Year: 2023},
		{Commodity: "power", Year: 2024},
	}})
	if err != nil {
		t.Fatalf("GetConsumptionBatch: %v", err)
	}
	if got, want := len(resp.Results), 2; got != want {
		t.Fatalf("len(results)=%d want %d", got, want)
	}
	if resp.Results[0].Commodity != "water" || resp.Results[1].Year != 2024 {
		t.Fatalf("results out of order: %#v", resp.Results)
	}
}
